// Package user defines the user account model and its request payloads.
package user

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the account's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRole is assigned when a create payload carries no role.
const DefaultRole = RoleUser

// User is the public projection of a row in users. It has no password field,
// so nothing that serializes a User can leak the hash.
type User struct {
	ID       int    `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether u may use the admin-only operations.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// StoredUser is a full row including the bcrypt hash. It is only read for
// login and must never be written to a response.
type StoredUser struct {
	User
	Password string `json:"-"`
}

// NewUser is the insert payload. Password must already be hashed.
type NewUser struct {
	UserName string
	Email    string
	Password string
	Role     Role
}

// Column names a mutable column of the users table.
type Column string

const (
	ColumnUserName Column = "user_name"
	ColumnEmail    Column = "email"
	ColumnPassword Column = "password"
	ColumnRole     Column = "role"
)

// MutableColumns lists every column an UPDATE may touch, in the order SET
// clauses are rendered. user_id is deliberately absent.
var MutableColumns = []Column{ColumnUserName, ColumnEmail, ColumnPassword, ColumnRole}

// SelfMutableColumns is the subset a user may change on their own account.
var SelfMutableColumns = []Column{ColumnUserName, ColumnEmail, ColumnPassword}

// Fields is a partial update: column -> new value. Absent columns are left
// untouched.
type Fields map[Column]any

// Restrict returns an error naming every column in f that is not in
// allowed, sorted by name.
func (f Fields) Restrict(allowed []Column) error {
	var rejected []string
	for column := range f {
		if !containsColumn(allowed, column) {
			rejected = append(rejected, string(column))
		}
	}
	if len(rejected) > 0 {
		slices.Sort(rejected)
		return fmt.Errorf("columns not allowed: %s", strings.Join(rejected, ", "))
	}
	return nil
}

func containsColumn(columns []Column, column Column) bool {
	for _, c := range columns {
		if c == column {
			return true
		}
	}
	return false
}
