package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct {
	pool querier
}

// NewRepo builds the pgx-backed repository. The pool is consumed through the
// querier interface so tests can substitute a mock.
func NewRepo(pool querier) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	if !c.Kind.Valid() {
		return fmt.Errorf("invalid consultation kind %q", c.Kind)
	}

	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultations (id, patient_id, kind, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.PatientID, c.Kind, c.Content, c.CreatedAt,
	)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Consultation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, kind, content, created_at
		FROM consultations WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Consultation
	for rows.Next() {
		c := &Consultation{}
		if err := rows.Scan(&c.ID, &c.PatientID, &c.Kind, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
