package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes how a consultation's content was produced.
type Kind string

const (
	// KindDictation marks content transcribed from an audio recording.
	KindDictation Kind = "dictation"
	// KindDocument marks content summarized from an uploaded document.
	KindDocument Kind = "document"
)

func (k Kind) Valid() bool {
	return k == KindDictation || k == KindDocument
}

// Consultation maps to the consultations table.
type Consultation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Kind      Kind      `db:"kind" json:"kind"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
