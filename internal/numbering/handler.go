package numbering

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kertas-app/kertas/internal/shared"
)

// Handler serves display-number previews for create forms.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches numbering routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{docType}", h.preview)
	r.Post("/{docType}/next", h.next)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "docType"))

	number, err := h.service.Preview(r.Context(), docType)
	if errors.Is(err, shared.ErrNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "Unknown document series", nil)
		return
	}
	if err != nil {
		h.logger.Error("preview number failed", slog.Any("error", err), slog.String("doc_type", string(docType)))
		shared.JSONError(w, http.StatusInternalServerError, "numbering_unavailable", "Failed to preview document number", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"number": number})
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "docType"))

	number, err := h.service.Next(r.Context(), docType)
	if errors.Is(err, shared.ErrNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "Unknown document series", nil)
		return
	}
	if err != nil {
		h.logger.Error("advance number failed", slog.Any("error", err), slog.String("doc_type", string(docType)))
		shared.JSONError(w, http.StatusInternalServerError, "numbering_unavailable", "Failed to advance document number", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"number": number})
}
