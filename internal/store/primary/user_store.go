package primary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// --- User Management ---

func (s *StoreImpl) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (google_id, name, email)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, user.GoogleID, user.Name, user.Email).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with google id '%s' already exists: %w", user.GoogleID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, google_id, COALESCE(name, ''), COALESCE(email, ''), created_at FROM users WHERE id = $1`
	return s.getUser(ctx, query, id)
}

func (s *StoreImpl) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT id, google_id, COALESCE(name, ''), COALESCE(email, ''), created_at FROM users WHERE google_id = $1`
	return s.getUser(ctx, query, googleID)
}

func (s *StoreImpl) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.GoogleID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
