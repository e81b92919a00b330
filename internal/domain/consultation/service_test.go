package consultation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/inference"
)

type memRepo struct {
	rows []*Consultation
}

func (m *memRepo) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Consultation, error) {
	var out []*Consultation
	for _, c := range m.rows {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeDirectory owns exactly the (patient, physician) pairs it is given.
type fakeDirectory struct {
	owned map[uuid.UUID]uuid.UUID
}

func (d *fakeDirectory) VerifyOwnership(ctx context.Context, patientID, physicianID uuid.UUID) error {
	if d.owned[patientID] != physicianID {
		return ErrPatientNotFound
	}
	return nil
}

type fakeTranscriber struct {
	text   string
	err    error
	called bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	f.called = true
	return f.text, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
	input   string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.input = text
	return f.summary, f.err
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc         *Service
	repo        *memRepo
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	patientID   uuid.UUID
	physicianID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:        &memRepo{},
		transcriber: &fakeTranscriber{text: "patient reports mild headache"},
		summarizer:  &fakeSummarizer{summary: "headache, no red flags"},
		patientID:   uuid.New(),
		physicianID: uuid.New(),
	}
	dir := &fakeDirectory{owned: map[uuid.UUID]uuid.UUID{f.patientID: f.physicianID}}
	f.svc = NewService(f.repo, dir, f.transcriber, f.summarizer, passthroughTx)
	return f
}

func TestRecordDictation(t *testing.T) {
	f := newFixture()

	c, err := f.svc.RecordDictation(context.Background(), f.patientID, f.physicianID,
		strings.NewReader("audio-bytes"), "audio/wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindDictation {
		t.Errorf("expected kind dictation, got %s", c.Kind)
	}
	if c.Content != "patient reports mild headache" {
		t.Errorf("unexpected content: %q", c.Content)
	}
	if len(f.repo.rows) != 1 {
		t.Errorf("expected 1 persisted consultation, got %d", len(f.repo.rows))
	}
}

func TestRecordDictation_NonOwnedPatient(t *testing.T) {
	f := newFixture()
	otherPhysician := uuid.New()

	_, err := f.svc.RecordDictation(context.Background(), f.patientID, otherPhysician,
		strings.NewReader("audio-bytes"), "audio/wav")
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if f.transcriber.called {
		t.Error("audio must not reach the transcriber when ownership fails")
	}
	if len(f.repo.rows) != 0 {
		t.Errorf("nothing should be persisted, got %d rows", len(f.repo.rows))
	}
}

func TestRecordDictation_UpstreamFailure(t *testing.T) {
	f := newFixture()
	f.transcriber.err = &inference.UpstreamError{Service: "transcription", StatusCode: 503, Message: "model loading"}
	f.transcriber.text = ""

	_, err := f.svc.RecordDictation(context.Background(), f.patientID, f.physicianID,
		strings.NewReader("audio-bytes"), "audio/wav")

	var upstream *inference.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != 503 {
		t.Errorf("expected upstream status 503, got %d", upstream.StatusCode)
	}
	if len(f.repo.rows) != 0 {
		t.Errorf("no consultation may be persisted on upstream failure, got %d rows", len(f.repo.rows))
	}
}

func TestRecordDictation_EmptyTranscript(t *testing.T) {
	f := newFixture()
	f.transcriber.text = "   "

	_, err := f.svc.RecordDictation(context.Background(), f.patientID, f.physicianID,
		strings.NewReader("audio-bytes"), "audio/wav")
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if len(f.repo.rows) != 0 {
		t.Errorf("nothing should be persisted, got %d rows", len(f.repo.rows))
	}
}

func TestRecordDocument(t *testing.T) {
	f := newFixture()

	c, err := f.svc.RecordDocument(context.Background(), f.patientID, f.physicianID,
		"discharge note: patient stable, follow up in two weeks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindDocument {
		t.Errorf("expected kind document, got %s", c.Kind)
	}
	if c.Content != "headache, no red flags" {
		t.Errorf("unexpected content: %q", c.Content)
	}
}

func TestRecordDocument_TruncatesInput(t *testing.T) {
	f := newFixture()
	long := strings.Repeat("a", 5000)

	if _, err := f.svc.RecordDocument(context.Background(), f.patientID, f.physicianID, long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.summarizer.input) != maxSummaryInput {
		t.Errorf("expected input truncated to %d bytes, got %d", maxSummaryInput, len(f.summarizer.input))
	}
}

func TestRecordDocument_NonOwnedPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordDocument(context.Background(), f.patientID, uuid.New(), "text")
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if f.summarizer.input != "" {
		t.Error("text must not reach the summarizer when ownership fails")
	}
}

func TestTruncate_NeverSplitsRune(t *testing.T) {
	s := strings.Repeat("a", maxSummaryInput-1) + "é" // multibyte rune straddles the limit
	out := truncate(s, maxSummaryInput)
	if !strings.HasSuffix(out, "a") {
		t.Errorf("expected the straddling rune dropped whole, got %q tail", out[len(out)-4:])
	}
	if len(out) > maxSummaryInput {
		t.Errorf("truncated string exceeds limit: %d", len(out))
	}
}

func TestList(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.RecordDocument(context.Background(), f.patientID, f.physicianID, "note"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.svc.List(context.Background(), f.patientID, f.physicianID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 consultation, got %d", len(got))
	}

	if _, err := f.svc.List(context.Background(), f.patientID, uuid.New()); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound for other physician, got %v", err)
	}
}
