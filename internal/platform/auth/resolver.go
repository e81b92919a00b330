package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrUnauthorized is the single failure outcome for every authentication
// problem: missing header, malformed scheme, bad signature, elapsed expiry,
// or unknown subject. Callers never learn which branch failed, so responses
// cannot leak whether an account exists.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the authenticated physician as seen by downstream ownership
// checks.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// PhysicianDirectory looks up the physician behind a validated token subject.
type PhysicianDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
}

// ResolveIdentity turns a raw Authorization header value into an
// authenticated identity: strip the Bearer scheme, validate the token, then
// resolve the subject against the directory. This is the one resolution
// algorithm behind every protected entry point.
func ResolveIdentity(ctx context.Context, rawHeader string, tokens *TokenService, dir PhysicianDirectory) (*Identity, error) {
	if rawHeader == "" {
		return nil, ErrUnauthorized
	}

	parts := strings.SplitN(rawHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrUnauthorized
	}

	subject, err := tokens.Validate(parts[1])
	if err != nil {
		return nil, ErrUnauthorized
	}

	ident, err := dir.FindByEmail(ctx, subject)
	if err != nil || ident == nil {
		return nil, ErrUnauthorized
	}
	return ident, nil
}
