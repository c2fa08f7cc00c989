package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/saver"
	"github.com/kertas-app/kertas/internal/shared"
)

// Handler serves the invoice draft endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes attaches the invoice draft routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/drafts", h.create)
	r.Route("/drafts/{draftID}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Get("/totals", h.totals)
		r.Patch("/", h.update)
		r.Delete("/", h.discard)
		r.Post("/items", h.addItem)
		r.Delete("/items/{itemID}", h.removeItem)
		r.Put("/party-type", h.setPartyType)
		r.Put("/party", h.setParty)
		r.Put("/contact", h.setContact)
		r.Post("/reset", h.reset)
		r.Get("/preview", h.preview)
		r.Post("/save", h.save)
		r.Get("/save", h.saveStatus)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var state *document.State
	if r.ContentLength > 0 {
		state = &document.State{}
		if err := json.NewDecoder(r.Body).Decode(state); err != nil {
			shared.JSONError(w, http.StatusBadRequest, "invalid_body", "Malformed request body", nil)
			return
		}
	}

	var (
		draft *document.Draft
		err   error
	)
	if state != nil {
		draft, err = h.service.Hydrate(r.Context(), *state)
	} else {
		draft, err = h.service.Create(r.Context())
	}
	if err != nil {
		h.logger.Error("create invoice draft", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "draft_unavailable", "Failed to create draft", nil)
		return
	}
	shared.JSON(w, http.StatusCreated, map[string]any{"draft": draft})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.respondDraftError(w, err, "load invoice draft")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.respondDraftError(w, err, "load invoice totals")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"totals": draft.Totals})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req FieldsRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.service.SetFields(r.Context(), chi.URLParam(r, "draftID"), req.toPatch())
	if err != nil {
		h.respondDraftError(w, err, "update invoice draft")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		h.respondDraftError(w, err, "discard invoice draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.service.AddItem(r.Context(), chi.URLParam(r, "draftID"), document.ItemInput{
		Name:      req.Name,
		Qualifier: req.Qualifier,
		Price:     req.Price,
	})
	if err != nil {
		h.respondDraftError(w, err, "add invoice item")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "draftID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondDraftError(w, err, "remove invoice item")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) setPartyType(w http.ResponseWriter, r *http.Request) {
	var req PartyTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.service.SetPartyType(r.Context(), chi.URLParam(r, "draftID"), document.PartyType(req.PartyType))
	if err != nil {
		h.respondDraftError(w, err, "set invoice party type")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) setParty(w http.ResponseWriter, r *http.Request) {
	var req PartyRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.service.SelectParty(r.Context(), chi.URLParam(r, "draftID"), document.PartyType(req.PartyType), req.PartyID)
	if err != nil {
		h.respondDraftError(w, err, "set invoice party")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) setContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.service.SelectContact(r.Context(), chi.URLParam(r, "draftID"), req.ContactID)
	if err != nil {
		h.respondDraftError(w, err, "set invoice contact")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Reset(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.respondDraftError(w, err, "reset invoice draft")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"draft": draft})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.service.Preview(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.respondDraftError(w, err, "preview invoice draft")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=invoice.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	if err := h.service.Save(r.Context(), draftID); err != nil {
		h.respondSaveError(w, err)
		return
	}
	shared.JSON(w, http.StatusAccepted, map[string]any{
		"status_url": "/invoices/drafts/" + draftID + "/save",
	})
}

func (h *Handler) saveStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.SaveStatus(r.Context(), chi.URLParam(r, "draftID"))
	if errors.Is(err, saver.ErrStatusNotFound) {
		shared.JSONError(w, http.StatusNotFound, "not_found", "No save run recorded for this draft", nil)
		return
	}
	if err != nil {
		h.logger.Error("invoice save status", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "status_unavailable", "Failed to load save status", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"status": status})
}

// decode unmarshals and validates the request body, writing the error
// response itself when the body is rejected.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_body", "Malformed request body", nil)
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		details := map[string]string{}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				details[fieldErr.Field()] = fieldErr.Error()
			}
		}
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", details)
		return false
	}
	return true
}

func (h *Handler) respondDraftError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, document.ErrDraftNotFound):
		shared.JSONError(w, http.StatusNotFound, "not_found", "Draft not found or expired", nil)
	case errors.Is(err, document.ErrItemNameRequired):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"name": "Service name is required"})
	case errors.Is(err, document.ErrItemPriceInvalid):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"price": "Price must be a number"})
	case errors.Is(err, document.ErrInvalidPartyType):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"party_type": "Unknown party type"})
	case errors.Is(err, document.ErrNoPartySelected):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"contact_id": "Select a client or lead first"})
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "draft_unavailable", "Failed to process draft", nil)
	}
}

func (h *Handler) respondSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrDraftNotFound):
		shared.JSONError(w, http.StatusNotFound, "not_found", "Draft not found or expired", nil)
	case errors.Is(err, saver.ErrSaveInFlight):
		shared.JSONError(w, http.StatusConflict, "save_in_flight", "A save is already in progress for this draft", nil)
	case errors.Is(err, saver.ErrNoItems):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"services": "Add at least one service item"})
	case errors.Is(err, saver.ErrPartyRequired):
		shared.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"party_id": "Select a client or lead"})
	default:
		h.logger.Error("start invoice save", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "save_unavailable", "Failed to start save", nil)
	}
}
