package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound covers both a nonexistent patient and a patient owned by
// another physician. The two cases are deliberately indistinguishable so a
// response never reveals that a record exists under a different owner.
var ErrNotFound = errors.New("patient not found")

// Repository queries are ownership-scoped: every read takes the
// authenticated physician's id and restricts the result by predicate.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	ListByPhysician(ctx context.Context, physicianID uuid.UUID) ([]*Patient, error)
	GetOwned(ctx context.Context, id, physicianID uuid.UUID) (*Patient, error)
}
