// Package model holds the types shared by the handler, service and
// repository layers. Domain types live in sub-packages (model/user).
package model

// MessageResponse describes the outcome of a mutating operation.
//
// UserID is only set by operations that create a row, so clients can fetch
// what they just created.
type MessageResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id,omitempty"`
}
