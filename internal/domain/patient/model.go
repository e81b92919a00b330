package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Ownership is set at creation and never
// reassigned.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	PhysicianID uuid.UUID  `db:"physician_id" json:"physician_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
