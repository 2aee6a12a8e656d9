package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the resolved person profile.
type LoginResponse struct {
	AccessToken        string      `json:"access_token"`
	ExpiresIn          int64       `json:"expires_in"`
	IssuedAt           time.Time   `json:"issued_at"`
	MustChangePassword bool        `json:"must_change_password"`
	User               UserInfo    `json:"user"`
	Profile            interface{} `json:"profile,omitempty"`
}

// ChangePasswordRequest payload for updating the login password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
