package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewRepo(mock), mock
}

func TestRepoPG_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()

	mock.ExpectExec(`INSERT INTO patients`).
		WithArgs(pgxmock.AnyArg(), "Ada", "Lovelace", pgxmock.AnyArg(), owner, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p := &Patient{FirstName: "Ada", LastName: "Lovelace", PhysicianID: owner}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepoPG_GetOwned_FiltersByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, owner := uuid.New(), uuid.New()
	bd := time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC)

	// Both the id and the owning physician must appear in the predicate.
	mock.ExpectQuery(`FROM patients WHERE id = \$1 AND physician_id = \$2`).
		WithArgs(id, owner).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "first_name", "last_name", "birth_date", "physician_id", "created_at"}).
			AddRow(id, "Ada", "Lovelace", &bd, owner, time.Now().UTC()))

	p, err := repo.GetOwned(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != id || p.PhysicianID != owner {
		t.Errorf("unexpected patient: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepoPG_GetOwned_NoRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM patients WHERE id = \$1 AND physician_id = \$2`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetOwned(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepoPG_ListByPhysician_ScopedQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()

	mock.ExpectQuery(`FROM patients WHERE physician_id = \$1 ORDER BY created_at`).
		WithArgs(owner).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "first_name", "last_name", "birth_date", "physician_id", "created_at"}).
			AddRow(uuid.New(), "Ada", "Lovelace", (*time.Time)(nil), owner, time.Now().UTC()).
			AddRow(uuid.New(), "Grace", "Hopper", (*time.Time)(nil), owner, time.Now().UTC()))

	patients, err := repo.ListByPhysician(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(patients))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
