package ledger

import (
	"context"
	"time"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
)

// Service is the balance calculator: read-side aggregation over the
// committed entry log.
type Service struct {
	accounts accounts.Repository
	repo     Repository
}

// NewService builds a balance calculator.
func NewService(accountRepo accounts.Repository, repo Repository) *Service {
	return &Service{accounts: accountRepo, repo: repo}
}

// GetBalance returns the signed balance of an account as of the cutoff
// date (or all history when asOf is nil).
func (s *Service) GetBalance(ctx context.Context, accountID int64, asOf *time.Time) (BalanceSummary, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return BalanceSummary{}, err
	}
	debit, credit, err := s.repo.AccountTotals(ctx, accountID, asOf)
	if err != nil {
		return BalanceSummary{}, err
	}
	return BalanceSummary{
		DebitTotal:  debit,
		CreditTotal: credit,
		Balance:     SignedBalance(account.Type, debit, credit),
		AccountType: account.Type,
	}, nil
}

// GetLedger returns the account's opening balance and its date-ordered
// entries annotated with running balances.
func (s *Service) GetLedger(ctx context.Context, accountID int64, asOf *time.Time) (LedgerView, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return LedgerView{}, err
	}
	rows, err := s.repo.AccountEntries(ctx, accountID, asOf)
	if err != nil {
		return LedgerView{}, err
	}
	return LedgerView{
		OpeningBalance: account.OpeningBalance,
		AccountType:    account.Type,
		Entries:        AnnotateRunning(account.Type, account.OpeningBalance, rows),
	}, nil
}
