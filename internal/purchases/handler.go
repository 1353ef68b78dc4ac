package purchases

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes purchase endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	purchases, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		shared.WriteError(w, "Listing purchases", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"items":      purchases,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading purchase", err)
		return
	}
	purchase, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading purchase", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, purchase)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreatePurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating purchase", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	purchase, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("create purchase", slog.Int64("supplier", in.SupplierID), slog.Any("error", err))
		shared.WriteError(w, "Creating purchase", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, purchase)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting purchase", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete purchase", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Deleting purchase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	supplierID, _ := strconv.ParseInt(q.Get("supplierId"), 10, 64)
	filters := ListFilters{SupplierID: supplierID, Page: page, Limit: limit}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filters.To = &end
	}
	return filters
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, acctshared.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
