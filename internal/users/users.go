// Package users provides simple CRUD for user records over the key/value
// store. It carries no authentication or authorization semantics; records are
// plain data validated at the storage boundary.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haridaggupatti/sb1-hyd/internal/docstore"
)

// ErrNotFound is returned when no user record exists for an id
var ErrNotFound = errors.New("user not found")

// User is a stored user record
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // free-form label, e.g. "candidate" or "admin"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Store persists user records in the key/value store under user:<id>
type Store struct {
	kv docstore.Store
}

// NewStore creates a user store over the given key/value store
func NewStore(kv docstore.Store) *Store {
	return &Store{kv: kv}
}

func userKey(id string) string {
	return "user:" + id
}

// Create validates and stores a new user record, assigning its id and
// timestamps
func (s *Store) Create(ctx context.Context, user User) (User, error) {
	if err := user.validate(); err != nil {
		return User{}, fmt.Errorf("invalid user: %w", err)
	}

	now := time.Now()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.put(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Get returns the user record for the given id
func (s *Store) Get(ctx context.Context, id string) (User, error) {
	raw, err := s.kv.Get(ctx, userKey(id))
	if errors.Is(err, docstore.ErrNotFound) {
		return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return User{}, fmt.Errorf("failed to read user %s: %w", id, err)
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}
	return user, nil
}

// Update validates and replaces the record for the given id, preserving its
// creation time
func (s *Store) Update(ctx context.Context, id string, user User) (User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if err := user.validate(); err != nil {
		return User{}, fmt.Errorf("invalid user: %w", err)
	}

	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()

	if err := s.put(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Delete removes the record for the given id; deleting an absent id is not an
// error
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, userKey(id)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, user User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.ID, err)
	}
	if err := s.kv.Set(ctx, userKey(user.ID), string(b)); err != nil {
		return fmt.Errorf("failed to write user %s: %w", user.ID, err)
	}
	return nil
}
