package directory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/shared"
)

// Handler exposes the party directory for form pickers.
type Handler struct {
	logger   *slog.Logger
	dir      Directory
	resolver *Resolver
}

// NewHandler constructs the directory handler.
func NewHandler(logger *slog.Logger, dir Directory, resolver *Resolver) *Handler {
	return &Handler{logger: logger, dir: dir, resolver: resolver}
}

// MountRoutes attaches directory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clients", h.listClients)
	r.Get("/leads", h.listLeads)
	r.Get("/{partyType}/{id}/contacts", h.listContacts)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.dir.Clients(r.Context())
	if err != nil {
		h.logger.Error("list clients failed", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "directory_unavailable", "Failed to load clients", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.dir.Leads(r.Context())
	if err != nil {
		h.logger.Error("list leads failed", slog.Any("error", err))
		shared.JSONError(w, http.StatusInternalServerError, "directory_unavailable", "Failed to load leads", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	pt := document.PartyType(chi.URLParam(r, "partyType"))
	if !pt.IsValid() {
		shared.JSONError(w, http.StatusBadRequest, "invalid_party_type", "Unknown party type", nil)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.JSONError(w, http.StatusBadRequest, "invalid_id", "Invalid party ID", nil)
		return
	}

	contacts, err := h.resolver.Contacts(r.Context(), pt, id)
	if err != nil {
		h.logger.Error("list contacts failed", slog.Any("error", err), slog.Int64("party_id", id))
		shared.JSONError(w, http.StatusInternalServerError, "directory_unavailable", "Failed to load contacts", nil)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}
