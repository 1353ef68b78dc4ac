package accounts

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes chart-of-accounts endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers HTTP routes for the accounts module.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/chart", h.Chart)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		shared.WriteError(w, "Listing accounts", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.service.Chart(r.Context())
	if err != nil {
		h.logger.Error("chart of accounts", slog.Any("error", err))
		shared.WriteError(w, "Loading chart of accounts", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, chart)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading account", err)
		return
	}
	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading account", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating account", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		shared.WriteError(w, "Creating account", acctshared.NewValidationError("body", err.Error()))
		return
	}
	account, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("create account", slog.String("code", in.Code), slog.Any("error", err))
		shared.WriteError(w, "Creating account", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, account)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Updating account", err)
		return
	}
	var patch UpdateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, "Updating account", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	account, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("update account", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Updating account", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting account", err)
		return
	}
	force := r.URL.Query().Get("force") == "true"
	if err := h.service.Delete(r.Context(), id, force); err != nil {
		h.logger.Error("delete account", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Deleting account", err)
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
