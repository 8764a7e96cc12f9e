package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdentityRecord represents a stored identity match for data transfer between layers.
type IdentityRecord struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	Page        int       `json:"page"`
	Identifier  string    `json:"identifier"`
	Name        *string   `json:"name,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
