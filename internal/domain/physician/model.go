package physician

import (
	"time"

	"github.com/google/uuid"
)

// Physician maps to the physicians table. The identity is immutable after
// signup; the password hash is never serialized.
type Physician struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
