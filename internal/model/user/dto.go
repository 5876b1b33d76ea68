package user

import (
	"github.com/deppfellow/user-api/internal/validation"
)

// ListUsersRequest carries no input.
type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error {
	return nil
}

// GetUserRequest identifies a user by path id.
type GetUserRequest struct {
	ID int `param:"id" json:"-" validate:"required,min=1"`
}

func (r *GetUserRequest) Validate() error {
	return validation.Struct(r)
}

// DeleteUserRequest identifies the user an admin deletes.
type DeleteUserRequest struct {
	ID int `param:"id" json:"-" validate:"required,min=1"`
}

func (r *DeleteUserRequest) Validate() error {
	return validation.Struct(r)
}

// CurrentUserRequest is used by operations that act on the caller's own
// account and take no input.
type CurrentUserRequest struct{}

func (r *CurrentUserRequest) Validate() error {
	return nil
}

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateUserRequest is the admin partial update of the user at path id.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	ID       int     `param:"id" json:"-" validate:"required,min=1"`
	UserName *string `json:"user_name" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=5"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r *UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

// Fields returns the columns present in the payload. The password is still
// plaintext.
func (r *UpdateUserRequest) Fields() Fields {
	fields := partialFields(r.UserName, r.Email, r.Password)
	if r.Role != nil {
		fields[ColumnRole] = string(*r.Role)
	}
	return fields
}

// UpdateCurrentUserRequest is a user's partial update of their own account.
// Role is decoded only so that attempts to change it are rejected rather
// than silently dropped.
type UpdateCurrentUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=5"`
	Role     *Role   `json:"role"`
}

func (r *UpdateCurrentUserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.Role != nil {
		return validation.CustomValidationErrors{
			{Field: string(ColumnRole), Message: "cannot be changed on your own account"},
		}
	}

	return nil
}

// Fields returns the columns present in the payload. The password is still
// plaintext.
func (r *UpdateCurrentUserRequest) Fields() Fields {
	return partialFields(r.UserName, r.Email, r.Password)
}

func partialFields(userName, email, password *string) Fields {
	fields := Fields{}
	if userName != nil {
		fields[ColumnUserName] = *userName
	}
	if email != nil {
		fields[ColumnEmail] = *email
	}
	if password != nil {
		fields[ColumnPassword] = *password
	}
	return fields
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

// LoginResponse carries the issued bearer token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
