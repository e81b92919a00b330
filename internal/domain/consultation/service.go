package consultation

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	// ErrPatientNotFound is returned when the patient does not exist or is
	// owned by another physician. The caller cannot tell which.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrEmptyResult is returned when the inference service answers
	// successfully but produces no usable text.
	ErrEmptyResult = errors.New("inference produced no text")
)

// PatientDirectory verifies the ownership chain before any consultation is
// recorded or read. Implemented by an adapter over the patient repository.
type PatientDirectory interface {
	VerifyOwnership(ctx context.Context, patientID, physicianID uuid.UUID) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, contentType string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// maxSummaryInput bounds the text sent to the summarization model.
const maxSummaryInput = 1024

type Service struct {
	repo       Repository
	patients   PatientDirectory
	transcribe Transcriber
	summarize  Summarizer
	inTx       TxRunner
}

func NewService(repo Repository, patients PatientDirectory, t Transcriber, s Summarizer, inTx TxRunner) *Service {
	return &Service{repo: repo, patients: patients, transcribe: t, summarize: s, inTx: inTx}
}

// RecordDictation transcribes an audio recording and stores the transcript as
// a consultation. Ownership is verified before the audio leaves the process,
// and nothing is persisted unless transcription succeeds.
func (s *Service) RecordDictation(ctx context.Context, patientID, physicianID uuid.UUID, audio io.Reader, contentType string) (*Consultation, error) {
	if err := s.patients.VerifyOwnership(ctx, patientID, physicianID); err != nil {
		return nil, err
	}

	text, err := s.transcribe.Transcribe(ctx, audio, contentType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResult
	}

	return s.persist(ctx, patientID, KindDictation, text)
}

// RecordDocument summarizes extracted document text and stores the summary as
// a consultation. Input is truncated before it is sent upstream.
func (s *Service) RecordDocument(ctx context.Context, patientID, physicianID uuid.UUID, text string) (*Consultation, error) {
	if err := s.patients.VerifyOwnership(ctx, patientID, physicianID); err != nil {
		return nil, err
	}

	summary, err := s.summarize.Summarize(ctx, truncate(text, maxSummaryInput))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		return nil, ErrEmptyResult
	}

	return s.persist(ctx, patientID, KindDocument, summary)
}

// List returns a patient's consultations, subject to the same ownership check
// as the write paths.
func (s *Service) List(ctx context.Context, patientID, physicianID uuid.UUID) ([]*Consultation, error) {
	if err := s.patients.VerifyOwnership(ctx, patientID, physicianID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) persist(ctx context.Context, patientID uuid.UUID, kind Kind, content string) (*Consultation, error) {
	c := &Consultation{PatientID: patientID, Kind: kind, Content: content}
	err := s.inTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	// never split a rune
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
