package partners

import (
	"context"
	"errors"
	"math"

	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// ErrOutstandingBalance blocks deletion of a partner whose ledger
// position has not been settled to zero.
var ErrOutstandingBalance = errors.New("partners: outstanding balance must be settled first")

type Service struct {
	suppliers SupplierRepository
	customers CustomerRepository
}

func NewService(suppliers SupplierRepository, customers CustomerRepository) *Service {
	return &Service{suppliers: suppliers, customers: customers}
}

func (s *Service) ListSuppliers(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	return s.suppliers.List(ctx, filters)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.suppliers.Get(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, in PartnerInput) (Supplier, error) {
	if in.Name == "" {
		return Supplier{}, acctshared.NewValidationError("name", "is required")
	}
	return s.suppliers.Create(ctx, Supplier{Name: in.Name, Phone: in.Phone, Address: in.Address})
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, in PartnerInput) (Supplier, error) {
	if in.Name == "" {
		return Supplier{}, acctshared.NewValidationError("name", "is required")
	}
	if err := s.suppliers.Update(ctx, id, Supplier{Name: in.Name, Phone: in.Phone, Address: in.Address}); err != nil {
		return Supplier{}, err
	}
	return s.suppliers.Get(ctx, id)
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	supplier, err := s.suppliers.Get(ctx, id)
	if err != nil {
		return err
	}
	if math.Abs(supplier.Balance) >= 0.01 {
		return ErrOutstandingBalance
	}
	return s.suppliers.Delete(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	return s.customers.List(ctx, filters)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, acctshared.NewValidationError("id", "must be positive")
	}
	return s.customers.Get(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, in PartnerInput) (Customer, error) {
	if in.Name == "" {
		return Customer{}, acctshared.NewValidationError("name", "is required")
	}
	return s.customers.Create(ctx, Customer{Name: in.Name, Phone: in.Phone, Address: in.Address})
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in PartnerInput) (Customer, error) {
	if in.Name == "" {
		return Customer{}, acctshared.NewValidationError("name", "is required")
	}
	if err := s.customers.Update(ctx, id, Customer{Name: in.Name, Phone: in.Phone, Address: in.Address}); err != nil {
		return Customer{}, err
	}
	return s.customers.Get(ctx, id)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if math.Abs(customer.Balance) >= 0.01 {
		return ErrOutstandingBalance
	}
	return s.customers.Delete(ctx, id)
}
