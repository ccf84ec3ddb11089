package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize in JSON
	Name         string    `json:"name"`
	CompanyName  string    `json:"companyName"`
	CreatedAt    time.Time `json:"createdAt"`
}
