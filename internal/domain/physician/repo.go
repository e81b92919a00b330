package physician

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken reports a signup against an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound reports a lookup that matched no physician.
	ErrNotFound = errors.New("physician not found")
)

type Repository interface {
	Create(ctx context.Context, p *Physician) error
	GetByEmail(ctx context.Context, email string) (*Physician, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Physician, error)
	// Delete removes a physician and, transactionally, every patient and
	// consultation in their ownership chain.
	Delete(ctx context.Context, id uuid.UUID) error
}
