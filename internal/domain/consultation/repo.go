package consultation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Consultation, error)
}
