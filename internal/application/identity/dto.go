package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains login request data
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult contains login response data
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo contains user information included in auth responses
type UserInfo struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"display_name"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	MemberNumber string      `json:"member_number,omitempty"`
	Permissions  []string    `json:"permissions"`
	RoleIDs      []uuid.UUID `json:"role_ids"`
}

// RefreshTokenInput contains token refresh request data
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains token refresh response data
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ChangePasswordInput contains password change request data
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8"`
}

// LogoutInput contains logout request data extracted from the token
type LogoutInput struct {
	UserID         uuid.UUID
	TokenJTI       string
	TokenExpiresAt time.Time
}

// GetCurrentUserInput contains current user request data
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains current user response data
type CurrentUserResult struct {
	User        UserInfo `json:"user"`
	Permissions []string `json:"permissions"`
}
