package payments

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes payment and receipt endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPaymentRoutes registers payment routes on r.
func (h *Handler) MountPaymentRoutes(r chi.Router) {
	r.Get("/", h.ListPayments)
	r.Post("/", h.CreatePayment)
	r.Get("/{id}", h.GetPayment)
	r.Delete("/{id}", h.DeletePayment)
}

// MountReceiptRoutes registers receipt routes on r.
func (h *Handler) MountReceiptRoutes(r chi.Router) {
	r.Get("/", h.ListReceipts)
	r.Post("/", h.CreateReceipt)
	r.Get("/{id}", h.GetReceipt)
	r.Delete("/{id}", h.DeleteReceipt)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	page, limit := pageArgs(r)
	payments, total, err := h.service.ListPayments(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		shared.WriteError(w, "Listing payments", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"items":      payments,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading payment", err)
		return
	}
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading payment", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var in CreatePaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating payment", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	payment, err := h.service.CreatePayment(r.Context(), in)
	if err != nil {
		h.logger.Error("create payment", slog.Int64("supplier", in.SupplierID), slog.Any("error", err))
		shared.WriteError(w, "Creating payment", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, payment)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting payment", err)
		return
	}
	if err := h.service.DeletePayment(r.Context(), id); err != nil {
		h.logger.Error("delete payment", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Deleting payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageArgs(r)
	receipts, total, err := h.service.ListReceipts(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		shared.WriteError(w, "Listing receipts", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"items":      receipts,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Loading receipt", err)
		return
	}
	receipt, err := h.service.GetReceipt(r.Context(), id)
	if err != nil {
		shared.WriteError(w, "Loading receipt", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, receipt)
}

func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var in CreateReceiptInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, "Creating receipt", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	receipt, err := h.service.CreateReceipt(r.Context(), in)
	if err != nil {
		h.logger.Error("create receipt", slog.Int64("customer", in.CustomerID), slog.Any("error", err))
		shared.WriteError(w, "Creating receipt", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, "Deleting receipt", err)
		return
	}
	if err := h.service.DeleteReceipt(r.Context(), id); err != nil {
		h.logger.Error("delete receipt", slog.Int64("id", id), slog.Any("error", err))
		shared.WriteError(w, "Deleting receipt", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pageArgs(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, acctshared.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
