package rates

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kertas-app/kertas/internal/shared"
)

// Handler serves the tax rate catalogs.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches rate catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind := Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = KindPPN
	}
	if !kind.IsValid() {
		shared.JSONError(w, http.StatusBadRequest, "invalid_kind", "Unknown rate kind", nil)
		return
	}

	rateList, err := h.service.List(r.Context(), kind)
	if err != nil {
		h.logger.Error("list rates failed", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "rates_unavailable", "Failed to load rates", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"rates": rateList})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_id", "Invalid rate ID", nil)
		return
	}

	rate, err := h.service.Get(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "Rate not found", nil)
		return
	}
	if err != nil {
		h.logger.Error("get rate failed", slog.Any("error", err), slog.Int64("id", id))
		shared.JSONError(w, http.StatusInternalServerError, "rates_unavailable", "Failed to load rate", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"rate": rate})
}

type rateRequest struct {
	Kind string  `json:"kind"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON", nil)
		return
	}

	rate, err := h.service.Create(r.Context(), Rate{Kind: Kind(req.Kind), Name: req.Name, Rate: req.Rate})
	if errors.Is(err, shared.ErrDuplicate) {
		shared.JSONError(w, http.StatusConflict, "duplicate_rate", "A rate with that name already exists", nil)
		return
	}
	if err != nil {
		shared.JSONError(w, http.StatusUnprocessableEntity, "invalid_rate", err.Error(), nil)
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"rate": rate})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_id", "Invalid rate ID", nil)
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON", nil)
		return
	}

	err = h.service.Update(r.Context(), id, Rate{Kind: Kind(req.Kind), Name: req.Name, Rate: req.Rate})
	if errors.Is(err, shared.ErrNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "Rate not found", nil)
		return
	}
	if err != nil {
		shared.JSONError(w, http.StatusUnprocessableEntity, "invalid_rate", err.Error(), nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_id", "Invalid rate ID", nil)
		return
	}

	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "Rate not found", nil)
		return
	}
	if err != nil {
		h.logger.Error("delete rate failed", slog.Any("error", err), slog.Int64("id", id))
		shared.JSONError(w, http.StatusInternalServerError, "rates_unavailable", "Failed to delete rate", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}
