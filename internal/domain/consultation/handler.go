package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/document"
	"github.com/clinic/clinic/internal/platform/inference"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the consultation endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/dictation/:patientId", h.Dictation)
	api.POST("/document/:patientId", h.Document)
	api.GET("/patients/:patientId/consultations", h.List)
}

// Dictation accepts a multipart audio upload under the field "audioFile",
// transcribes it and records the transcript against the patient.
func (h *Handler) Dictation(c echo.Context) error {
	ident, patientID, err := h.requestScope(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("audioFile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audioFile is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read audioFile")
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	cons, err := h.svc.RecordDictation(c.Request().Context(), patientID, ident.ID, f, contentType)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, cons)
}

// Document accepts a multipart document upload under the field
// "documentFile", extracts its text and records the model's summary.
func (h *Handler) Document(c echo.Context) error {
	ident, patientID, err := h.requestScope(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("documentFile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "documentFile is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read documentFile")
	}
	defer f.Close()

	text, err := document.ExtractText(f, fh.Size, fh.Filename)
	if err != nil {
		if errors.Is(err, document.ErrNoText) {
			return echo.NewHTTPError(http.StatusBadRequest, "document contains no extractable text")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "cannot parse documentFile")
	}

	cons, err := h.svc.RecordDocument(c.Request().Context(), patientID, ident.ID, text)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, cons)
}

func (h *Handler) List(c echo.Context) error {
	ident, patientID, err := h.requestScope(c)
	if err != nil {
		return err
	}

	consultations, err := h.svc.List(c.Request().Context(), patientID, ident.ID)
	if err != nil {
		return h.mapError(err)
	}
	if consultations == nil {
		consultations = []*Consultation{}
	}
	return c.JSON(http.StatusOK, consultations)
}

// requestScope resolves the authenticated identity and the patient id from
// the route. Both are required on every consultation endpoint.
func (h *Handler) requestScope(c echo.Context) (*auth.Identity, uuid.UUID, error) {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return ident, patientID, nil
}

func (h *Handler) mapError(err error) error {
	var upstream *inference.UpstreamError
	switch {
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrEmptyResult):
		return echo.NewHTTPError(http.StatusBadGateway, "inference produced no text")
	case errors.As(err, &upstream):
		return echo.NewHTTPError(http.StatusBadGateway, map[string]interface{}{
			"error":           "upstream inference failed",
			"service":         upstream.Service,
			"upstream_status": upstream.StatusCode,
			"message":         upstream.Message,
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "consultation failed")
	}
}
