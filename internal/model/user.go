// internal/model/user.go
package model

import "time"

// User is a record of the local demo user store. The password is kept in
// plain text; this store is not an authentication system.
type User struct {
	ID        string    `json:"id" validate:"required"`
	Username  string    `json:"username" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// CurrentUser is the persisted login session.
type CurrentUser struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"loginTime"`
}

// UserSummary is what a successful login or registration returns.
type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary strips the password and metadata from a user record.
func (u User) Summary() UserSummary {
	return UserSummary{Username: u.Username, Email: u.Email}
}

type ContextKey string

const (
	CurrentUserKey ContextKey = "currentUser"
)

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}
