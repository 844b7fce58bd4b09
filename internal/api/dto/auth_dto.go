package dto

import (
	"time"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse describes the logged-in account.
type AccountResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        domain.AccountRole `json:"role"`
	HomeownerID *string            `json:"homeowner_id,omitempty"`
	BuilderID   *string            `json:"builder_id,omitempty"`
}
