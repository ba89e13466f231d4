package domain

import (
	"time" // Creation timestamp

	"github.com/google/uuid" // UUID primary keys
)

// User Model
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"` // Primary key
	Name      string    `gorm:"not null" json:"name"`               // Display name
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`  // Unique phone number, login identity
	Password  string    `gorm:"not null" json:"-"`                  // Bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`                         // Timestamp of registration
}
