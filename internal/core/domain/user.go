package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account that owns webhooks.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose
	APIKey       string    `json:"apiKey"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
