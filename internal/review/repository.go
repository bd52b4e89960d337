package review

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

// Repository persists review sessions. Implementations hand out copies:
// mutating a returned session never changes stored state until Save.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error

	// newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*Session, error)
	ListAll(ctx context.Context) ([]*Session, error)

	Delete(ctx context.Context, id string) error
}
