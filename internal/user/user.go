package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate signals a unique-constraint violation, e.g. two
	// concurrent registrations racing on the same telegram_id. Callers
	// are expected to recover by re-reading.
	ErrDuplicate = errors.New("user already exists")
)

// User is the persistent account record. Email, Phone and TelegramID
// are each unique when set; any of them may be empty.
type User struct {
	ID         string
	Email      string
	Phone      string
	TelegramID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store defines how user records are stored and retrieved.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByTelegramID(ctx context.Context, telegramID string) (*User, error)

	// Create inserts a new record with the given telegram identity.
	// Returns ErrDuplicate if the telegram_id is already taken.
	Create(ctx context.Context, telegramID, name string) (*User, error)

	// UpdateName sets the display name and bumps updated_at.
	UpdateName(ctx context.Context, id, name string) (*User, error)
}
