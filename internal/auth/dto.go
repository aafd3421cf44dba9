package auth

import (
	"github.com/joonseokim/peerlink-backend/internal/users"
)

// LoginRequest is the credential payload for local accounts.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FacebookLoginRequest resolves an existing facebook-mode account.
type FacebookLoginRequest struct {
	FacebookUserID string `json:"facebook_user_id" validate:"required"`
}

// LoginResponse carries the minted token and the authenticated profile.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}
