package expenses

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes expense and category endpoints.
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

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list expense categories", slog.Any("error", err))
		shared.WriteError(w, "Listing expense categories", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating expense category", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	category, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		h.logger.Error("create expense category", slog.String("name", in.Name), slog.Any("error", err))
		shared.WriteError(w, "Creating expense category", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Updating expense category", err)
		return
	}
	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Updating expense category", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	category, err := h.service.UpdateCategory(r.Context(), id, in)
	if err != nil {
		shared.WriteError(w, "Updating expense category", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting expense category", err)
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, ErrCategoryInUse) {
			shared.WriteJSON(w, http.StatusConflict, map[string]string{"error": "Deleting expense category failed: " + err.Error()})
			return
		}
		shared.WriteError(w, "Deleting expense category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	var from, to *time.Time
	if t, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		from = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	expenses, total, err := h.service.List(r.Context(), from, to, page, limit)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		shared.WriteError(w, "Listing expenses", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"items":      expenses,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading expense", err)
		return
	}
	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading expense", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating expense", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	expense, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("create expense", slog.Int64("category", in.CategoryID), slog.Any("error", err))
		shared.WriteError(w, "Creating expense", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting expense", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete expense", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Deleting expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, acctshared.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
