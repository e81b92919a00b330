package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a patient under the authenticated physician. Ownership
// comes exclusively from physicianID; nothing in the client payload can
// reassign it.
func (s *Service) Create(ctx context.Context, physicianID uuid.UUID, firstName, lastName string, birthDate *time.Time) (*Patient, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first_name and last_name are required")
	}

	p := &Patient{
		FirstName:   firstName,
		LastName:    lastName,
		BirthDate:   birthDate,
		PhysicianID: physicianID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the patients owned by the authenticated physician, and only
// those.
func (s *Service) List(ctx context.Context, physicianID uuid.UUID) ([]*Patient, error) {
	return s.repo.ListByPhysician(ctx, physicianID)
}

// Get resolves a patient only when the ownership chain matches.
func (s *Service) Get(ctx context.Context, id, physicianID uuid.UUID) (*Patient, error) {
	return s.repo.GetOwned(ctx, id, physicianID)
}
