package partners

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler exposes supplier and customer endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountSupplierRoutes registers supplier routes on r.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/", h.ListSuppliers)
	r.Post("/", h.CreateSupplier)
	r.Get("/{id}", h.GetSupplier)
	r.Put("/{id}", h.UpdateSupplier)
	r.Delete("/{id}", h.DeleteSupplier)
}

// MountCustomerRoutes registers customer routes on r.
func (h *Handler) MountCustomerRoutes(r chi.Router) {
	r.Get("/", h.ListCustomers)
	r.Post("/", h.CreateCustomer)
	r.Get("/{id}", h.GetCustomer)
	r.Put("/{id}", h.UpdateCustomer)
	r.Delete("/{id}", h.DeleteCustomer)
}

type listPage[T any] struct {
	Items      []T               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	suppliers, total, err := h.service.ListSuppliers(r.Context(), filters)
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		h.writeError(w, "Listing suppliers", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, listPage[Supplier]{
		Items:      suppliers,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Loading supplier", err)
		return
	}
	supplier, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		h.writeError(w, "Loading supplier", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, supplier)
}

func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in PartnerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, "Creating supplier", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	supplier, err := h.service.CreateSupplier(r.Context(), in)
	if err != nil {
		h.logger.Error("create supplier", slog.String("name", in.Name), slog.Any("error", err))
		h.writeError(w, "Creating supplier", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, supplier)
}

func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Updating supplier", err)
		return
	}
	var in PartnerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, "Updating supplier", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	supplier, err := h.service.UpdateSupplier(r.Context(), id, in)
	if err != nil {
		h.writeError(w, "Updating supplier", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, supplier)
}

func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Deleting supplier", err)
		return
	}
	if err := h.service.DeleteSupplier(r.Context(), id); err != nil {
		h.writeError(w, "Deleting supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	customers, total, err := h.service.ListCustomers(r.Context(), filters)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		h.writeError(w, "Listing customers", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, listPage[Customer]{
		Items:      customers,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Loading customer", err)
		return
	}
	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.writeError(w, "Loading customer", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, customer)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in PartnerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, "Creating customer", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), in)
	if err != nil {
		h.logger.Error("create customer", slog.String("name", in.Name), slog.Any("error", err))
		h.writeError(w, "Creating customer", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Updating customer", err)
		return
	}
	var in PartnerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, "Updating customer", acctshared.NewValidationError("body", "invalid JSON"))
		return
	}
	customer, err := h.service.UpdateCustomer(r.Context(), id, in)
	if err != nil {
		h.writeError(w, "Updating customer", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, "Deleting customer", err)
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.writeError(w, "Deleting customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, operation string, err error) {
	if errors.Is(err, ErrOutstandingBalance) {
		shared.WriteJSON(w, http.StatusConflict, map[string]string{"error": operation + " failed: " + err.Error()})
		return
	}
	shared.WriteError(w, operation, err)
}

func parseFilters(r *http.Request) ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	return ListFilters{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, acctshared.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
