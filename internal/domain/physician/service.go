package physician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

// ErrInvalidCredentials is the uniform login failure: unknown email and
// wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	repo   Repository
	tokens *auth.TokenService
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Signup registers a new physician with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, email, password string) (*Physician, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	p := &Physician{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Login verifies credentials and issues a bearer token whose subject is the
// physician's email.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(password, p.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(p.Email)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Physician, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete destroys a physician and every patient and consultation they own.
// No HTTP route triggers this; it exists as a repository-level operation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
