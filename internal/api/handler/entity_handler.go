package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruetfest/festcrm/internal/api/metrics"
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
	"github.com/ruetfest/festcrm/internal/export"
)

// EntityHandler exposes one entity type's resource engine over HTTP. The
// same handler serves sponsors, alumni and speakers; the router instantiates
// it once per descriptor.
type EntityHandler struct {
	service ports.EntityService
	entity  string
	label   string // singular display name for envelope messages
}

func NewEntityHandler(service ports.EntityService) *EntityHandler {
	entity := string(service.Descriptor().Type)
	return &EntityHandler{
		service: service,
		entity:  entity,
		label:   strings.ToUpper(entity[:1]) + entity[1:],
	}
}

type searchRequest struct {
	SearchTerm string `json:"search_term"`
}

// envelope is the response shape for mutating operations.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// Search handles POST /api/{type}/search. The response carries only the
// reduced projection, never full records.
func (h *EntityHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	docs, err := h.service.Search(c.Request().Context(), ctxPrincipal(c), req.SearchTerm)
	h.record("search", err)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Add handles POST /api/{type}/add.
func (h *EntityHandler) Add(c echo.Context) error {
	var payload domain.Document
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid payload"})
	}

	id, err := h.service.Add(c.Request().Context(), ctxPrincipal(c), payload)
	h.record("add", err)
	if err != nil {
		return h.envelopeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: h.label + " added successfully", ID: id})
}

// Get handles GET /api/{type}/:id, returning one full record.
func (h *EntityHandler) Get(c echo.Context) error {
	doc, err := h.service.Get(c.Request().Context(), ctxPrincipal(c), c.Param("id"))
	h.record("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// List handles GET /api/{type}/list: every record, newest first.
func (h *EntityHandler) List(c echo.Context) error {
	docs, err := h.service.List(c.Request().Context(), ctxPrincipal(c))
	h.record("list", err)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Update handles PUT /api/{type}/update/:id.
func (h *EntityHandler) Update(c echo.Context) error {
	var fields domain.Document
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid payload"})
	}

	err := h.service.Update(c.Request().Context(), ctxPrincipal(c), c.Param("id"), fields)
	h.record("update", err)
	if err != nil {
		return h.envelopeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: h.label + " updated successfully"})
}

// Delete handles DELETE /api/{type}/delete/:id.
func (h *EntityHandler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), ctxPrincipal(c), c.Param("id"))
	h.record("delete", err)
	if err != nil {
		return h.envelopeError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: h.label + " deleted successfully"})
}

// Count handles GET /api/{type}/count.
func (h *EntityHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context(), ctxPrincipal(c))
	h.record("count", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Download handles GET /api/{type}/download, serving the record set as a
// spreadsheet attachment.
func (h *EntityHandler) Download(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.ExportDuration.WithLabelValues(h.entity))
	b, name, err := h.service.Export(c.Request().Context(), ctxPrincipal(c))
	timer.ObserveDuration()
	h.record("export", err)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, export.MIMEType, b)
}

// envelopeError maps domain failures onto the {success,message} envelope
// used by mutating operations. Unknown errors fall through to the central
// error handler, which logs them and answers 500.
func (h *EntityHandler) envelopeError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, envelope{Message: ve.Error()})
	case errors.Is(err, domain.ErrEmptyUpdate):
		return c.JSON(http.StatusBadRequest, envelope{Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.JSON(http.StatusConflict, envelope{Message: h.label + " already exists"})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, envelope{Message: h.label + " not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, envelope{Message: "Unauthorized"})
	}
	return err
}

func (h *EntityHandler) record(op string, err error) {
	metrics.EntityOpsTotal.WithLabelValues(h.entity, op, outcome(err)).Inc()
}

func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve), errors.Is(err, domain.ErrEmptyUpdate):
		return "validation"
	case errors.Is(err, domain.ErrDuplicate):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}
