package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Paul1o1/rendojobs-frontend/internal/db"
)

const uniqueViolation = "23505"

// PostgresStore is the canonical Store backed by the users table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(telegram_id, ''), COALESCE(name, ''), created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.TelegramID,
		&u.Name,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (s *PostgresStore) FindByTelegramID(ctx context.Context, telegramID string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE telegram_id = $1
	`, telegramID))
}

func (s *PostgresStore) Create(ctx context.Context, telegramID, name string) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (telegram_id, name)
		VALUES ($1, $2)
		RETURNING `+userColumns+`
	`, telegramID, name))

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) UpdateName(ctx context.Context, id, name string) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, name))
	if err != nil {
		return nil, err
	}
	return u, nil
}
