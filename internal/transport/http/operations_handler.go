package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/kevindiazor/ThePUL/internal/errors"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/internal/services"
)

// SnapshotSource exposes pipeline run snapshots
type SnapshotSource interface {
	Latest() (operations.OperationSnapshot, bool)
	GetSnapshot(operationID string) (operations.OperationSnapshot, bool)
}

// OperationsHandler reports pipeline run progress over plain HTTP for
// clients that do not hold a websocket open
type OperationsHandler struct {
	source       SnapshotSource
	errorHandler *apierrors.ErrorHandler
}

// NewOperationsHandler creates an operations handler
func NewOperationsHandler(source SnapshotSource, errorHandler *apierrors.ErrorHandler) *OperationsHandler {
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(nil, false)
	}
	return &OperationsHandler{source: source, errorHandler: errorHandler}
}

// Routes returns the operations routes
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/latest", h.GetLatest)
	r.Get("/{id}", h.GetOperation)
	return r
}

// GetLatest handles GET /api/operations/latest
func (h *OperationsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.source.Latest()
	if !ok {
		h.errorHandler.HandleError(w, r, services.ErrOperationNotFound)
		return
	}
	render.JSON(w, r, snapshot)
}

// GetOperation handles GET /api/operations/{id}
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.source.GetSnapshot(chi.URLParam(r, "id"))
	if !ok {
		h.errorHandler.HandleError(w, r, services.ErrOperationNotFound)
		return
	}
	render.JSON(w, r, snapshot)
}
