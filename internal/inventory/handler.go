package inventory

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes item and snapshot endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/low-stock", h.ListLowStock)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/snapshots", h.Snapshots)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list items", slog.Any("error", err))
		shared.WriteError(w, "Listing items", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("list low stock", slog.Any("error", err))
		shared.WriteError(w, "Listing low-stock items", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading item", err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading item", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating item", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("create item", slog.String("name", in.Name), slog.Any("error", err))
		shared.WriteError(w, "Creating item", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Updating item", err)
		return
	}
	var in ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Updating item", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		shared.WriteError(w, "Updating item", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting item", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, "Deleting item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading snapshots", err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snaps, err := h.service.Snapshots(r.Context(), id, limit)
	if err != nil {
		shared.WriteError(w, "Loading snapshots", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, snaps)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, acctshared.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
