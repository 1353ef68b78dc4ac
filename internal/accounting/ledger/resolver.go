package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
)

// SystemCode names an account every posting rule depends on.
type SystemCode string

const (
	CodeCash               SystemCode = "CASH"
	CodeBank               SystemCode = "BANK"
	CodeAccountsPayable    SystemCode = "ACCOUNTS_PAYABLE"
	CodeAccountsReceivable SystemCode = "ACCOUNTS_RECEIVABLE"
	CodeInventory          SystemCode = "INVENTORY"
	CodeSalesRevenue       SystemCode = "SALES_REVENUE"
)

var systemCodes = []SystemCode{
	CodeCash, CodeBank, CodeAccountsPayable, CodeAccountsReceivable, CodeInventory, CodeSalesRevenue,
}

// Resolver caches system-account ids so posting rules do not re-query
// accounts by code string on every post. It is rebuilt at startup and
// whenever the chart of accounts changes.
type Resolver struct {
	mu   sync.RWMutex
	repo accounts.Repository
	ids  map[SystemCode]int64
}

// NewResolver builds an empty resolver; call Refresh before posting.
func NewResolver(repo accounts.Repository) *Resolver {
	return &Resolver{repo: repo, ids: make(map[SystemCode]int64)}
}

// Refresh rebuilds the code-to-id cache from the account store.
func (r *Resolver) Refresh(ctx context.Context) error {
	all, err := r.repo.List(ctx)
	if err != nil {
		return err
	}
	byCode := make(map[string]int64, len(all))
	for _, a := range all {
		byCode[a.Code] = a.ID
	}
	ids := make(map[SystemCode]int64, len(systemCodes))
	for _, code := range systemCodes {
		if id, ok := byCode[string(code)]; ok {
			ids[code] = id
		}
	}
	r.mu.Lock()
	r.ids = ids
	r.mu.Unlock()
	return nil
}

// Account returns the id for a system code, failing when it is absent.
func (r *Resolver) Account(code SystemCode) (int64, error) {
	r.mu.RLock()
	id, ok := r.ids[code]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", shared.ErrSystemAccountMissing, code)
	}
	return id, nil
}

// SettlementAccount maps a payment method onto Cash or Bank.
func (r *Resolver) SettlementAccount(method PaymentMethod) (int64, error) {
	if method == MethodCash {
		return r.Account(CodeCash)
	}
	return r.Account(CodeBank)
}
