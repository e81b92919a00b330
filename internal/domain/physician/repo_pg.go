package physician

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/clinic/internal/platform/db"
)

// pgPool is the slice of pgxpool.Pool the repository needs: plain queries
// plus the ability to open the delete-cascade transaction. Tests substitute
// a mock.
type pgPool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type repoPG struct {
	pool pgPool
}

func NewRepo(pool pgPool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const physicianCols = `id, email, password_hash, created_at`

func (r *repoPG) Create(ctx context.Context, p *Physician) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO physicians (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.Email, p.PasswordHash, p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Physician, error) {
	return scanPhysician(r.conn(ctx).QueryRow(ctx,
		`SELECT `+physicianCols+` FROM physicians WHERE email = $1`, email))
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Physician, error) {
	return scanPhysician(r.conn(ctx).QueryRow(ctx,
		`SELECT `+physicianCols+` FROM physicians WHERE id = $1`, id))
}

// Delete runs the cascade explicitly, children before parent, inside one
// transaction. The schema's ON DELETE CASCADE backs this up, but the chain
// is spelled out so the operation does not depend on implicit FK behavior.
func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		conn := r.conn(ctx)

		if _, err := conn.Exec(ctx, `
			DELETE FROM consultations
			WHERE patient_id IN (SELECT id FROM patients WHERE physician_id = $1)`, id); err != nil {
			return err
		}
		if _, err := conn.Exec(ctx,
			`DELETE FROM patients WHERE physician_id = $1`, id); err != nil {
			return err
		}

		tag, err := conn.Exec(ctx, `DELETE FROM physicians WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanPhysician(row pgx.Row) (*Physician, error) {
	p := &Physician{}
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
