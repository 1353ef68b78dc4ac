package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
)

// Service composes the balance calculator and raw aggregates into the
// financial reports. All reports are read-only; the cache is a
// versioned overlay invalidated on every posting.
type Service struct {
	repo     Repository
	accounts accounts.Repository
	ledger   ledger.Repository
	resolver *ledger.Resolver
	cache    *Cache
	now      func() time.Time
}

// NewService builds a report Service. cache may be nil.
func NewService(repo Repository, accountRepo accounts.Repository, ledgerRepo ledger.Repository, resolver *ledger.Resolver, cache *Cache) *Service {
	return &Service{
		repo:     repo,
		accounts: accountRepo,
		ledger:   ledgerRepo,
		resolver: resolver,
		cache:    cache,
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func dateKey(t time.Time) string {
	return t.Format("20060102")
}

func (s *Service) cached(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), keyParts ...string) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

// GetTrialBalance lists every active account on its debit or credit
// column as of the cutoff date.
func (s *Service) GetTrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, error) {
	var tb TrialBalance
	err := s.cached(ctx, &tb, func(ctx context.Context) (interface{}, error) {
		totals, err := s.repo.ActiveAccountTotals(ctx, &asOf)
		if err != nil {
			return nil, err
		}
		return BuildTrialBalance(totals), nil
	}, "tb", dateKey(asOf))
	return tb, err
}

// GetBalanceSheet groups type-signed balances as of the cutoff date.
func (s *Service) GetBalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheet, error) {
	var bs BalanceSheet
	err := s.cached(ctx, &bs, func(ctx context.Context) (interface{}, error) {
		totals, err := s.repo.ActiveAccountTotals(ctx, &asOf)
		if err != nil {
			return nil, err
		}
		return BuildBalanceSheet(totals), nil
	}, "bs", dateKey(asOf))
	return bs, err
}

// GetProfitLoss computes revenue, COGS, and expenses over the range.
func (s *Service) GetProfitLoss(ctx context.Context, start, end time.Time) (ProfitLoss, error) {
	var pl ProfitLoss
	err := s.cached(ctx, &pl, func(ctx context.Context) (interface{}, error) {
		var revenue, cogs, expenses float64
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			revenue, err = s.repo.SumSales(gctx, start, end)
			return err
		})
		g.Go(func() (err error) {
			cogs, err = s.repo.SumPurchases(gctx, start, end)
			return err
		})
		g.Go(func() (err error) {
			expenses, err = s.repo.SumExpenseTransactions(gctx, start, end)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return BuildProfitLoss(revenue, cogs, expenses), nil
	}, "pl", dateKey(start), dateKey(end))
	return pl, err
}

// GetCashFlow derives the cash flow statement over the range.
func (s *Service) GetCashFlow(ctx context.Context, start, end time.Time) (CashFlow, error) {
	var cf CashFlow
	err := s.cached(ctx, &cf, func(ctx context.Context) (interface{}, error) {
		cashID, err := s.resolver.Account(ledger.CodeCash)
		if err != nil {
			return nil, err
		}
		cashAccount, err := s.accounts.Get(ctx, cashID)
		if err != nil {
			return nil, err
		}

		in := CashFlowInput{}
		beforeStart := start.Add(-time.Nanosecond)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			in.CashReceipts, err = s.repo.CashMethodReceipts(gctx, start, end)
			return err
		})
		g.Go(func() (err error) {
			in.CashPayments, err = s.repo.CashMethodPayments(gctx, start, end)
			return err
		})
		g.Go(func() (err error) {
			in.Movements, err = s.repo.CashMovements(gctx, start, end)
			return err
		})
		g.Go(func() error {
			debit, credit, err := s.ledger.AccountTotals(gctx, cashID, &beforeStart)
			if err != nil {
				return err
			}
			in.OpeningCash = cashAccount.OpeningBalance + ledger.SignedBalance(cashAccount.Type, debit, credit)
			return nil
		})
		g.Go(func() error {
			debit, credit, err := s.ledger.AccountTotals(gctx, cashID, &end)
			if err != nil {
				return err
			}
			in.ClosingCash = cashAccount.OpeningBalance + ledger.SignedBalance(cashAccount.Type, debit, credit)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return BuildCashFlow(in), nil
	}, "cf", dateKey(start), dateKey(end))
	return cf, err
}

// GetAgingReport buckets outstanding receivables or payables by age.
func (s *Service) GetAgingReport(ctx context.Context, asOf time.Time, agingType AgingType) (AgingReport, error) {
	if agingType != AgingReceivable && agingType != AgingPayable {
		return AgingReport{}, fmt.Errorf("reports: unknown aging type %q", agingType)
	}
	var report AgingReport
	err := s.cached(ctx, &report, func(ctx context.Context) (interface{}, error) {
		var items []AgingItem
		var err error
		if agingType == AgingReceivable {
			items, err = s.repo.OutstandingReceivables(ctx, asOf)
		} else {
			items, err = s.repo.OutstandingPayables(ctx, asOf)
		}
		if err != nil {
			return nil, err
		}
		return BuildAging(asOf, agingType, items), nil
	}, "aging", string(agingType), dateKey(asOf))
	return report, err
}
