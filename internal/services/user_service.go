package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// UserService manages users identified by their Google account id.
type UserService struct {
	store store.UserStore
}

func NewUserService(s store.UserStore) *UserService {
	return &UserService{store: s}
}

// GetOrCreateUser returns the user with the given Google id, creating it on
// first sight. Name and email are optional.
func (s *UserService) GetOrCreateUser(ctx context.Context, googleID, name, email string) (*models.User, error) {
	googleID = strings.TrimSpace(googleID)
	if googleID == "" {
		return nil, fmt.Errorf("google id cannot be empty: %w", models.ErrValidation)
	}

	user, err := s.store.GetUserByGoogleID(ctx, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user '%s': %w", googleID, err)
	}

	if name == "" || email == "" {
		log.Warnf("Creating user %s without complete profile (name=%q, email=%q)", googleID, name, email)
	}
	user = &models.User{GoogleID: googleID, Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent sign-in, or the email is taken by
		// a different Google account.
		if errors.Is(err, store.ErrDuplicate) {
			existing, getErr := s.store.GetUserByGoogleID(ctx, googleID)
			switch {
			case getErr == nil:
				return existing, nil
			case errors.Is(getErr, store.ErrNotFound):
				return nil, fmt.Errorf("failed to create user '%s': email %q belongs to another account: %w", googleID, email, err)
			default:
				return nil, fmt.Errorf("failed to get user '%s' after duplicate insert: %w", googleID, getErr)
			}
		}
		return nil, fmt.Errorf("failed to create user '%s': %w", googleID, err)
	}
	return user, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}
