package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/invoicing"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

const (
	cashID       = int64(1)
	bankID       = int64(2)
	receivableID = int64(4)
	revenueID    = int64(6)
)

type stubAccounts struct{}

func (stubAccounts) Account(code ledger.SystemCode) (int64, error) {
	switch code {
	case ledger.CodeCash:
		return cashID, nil
	case ledger.CodeBank:
		return bankID, nil
	case ledger.CodeAccountsReceivable:
		return receivableID, nil
	case ledger.CodeSalesRevenue:
		return revenueID, nil
	}
	return 0, acctshared.ErrSystemAccountMissing
}

func (stubAccounts) SettlementAccount(method ledger.PaymentMethod) (int64, error) {
	if method == ledger.MethodCash {
		return cashID, nil
	}
	return bankID, nil
}

type fakeRepo struct {
	sales       map[int64]Sale
	lines       map[int64][]Line
	customerBal map[int64]float64
	stock       map[int64]float64
	txnBySource map[int64]ledger.PostingInput
	counters    map[string]int
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sales:       map[int64]Sale{},
		lines:       map[int64][]Line{},
		customerBal: map[int64]float64{3: 0},
		stock:       map[int64]float64{100: 50},
		txnBySource: map[int64]ledger.PostingInput{},
		counters:    map[string]int{},
		nextID:      1,
	}
}

func (f *fakeRepo) snapshot() *fakeRepo {
	c := newFakeRepo()
	c.nextID = f.nextID
	for k, v := range f.sales {
		c.sales[k] = v
	}
	for k, v := range f.lines {
		c.lines[k] = append([]Line(nil), v...)
	}
	c.customerBal = map[int64]float64{}
	for k, v := range f.customerBal {
		c.customerBal[k] = v
	}
	c.stock = map[int64]float64{}
	for k, v := range f.stock {
		c.stock[k] = v
	}
	for k, v := range f.txnBySource {
		c.txnBySource[k] = v
	}
	for k, v := range f.counters {
		c.counters[k] = v
	}
	return c
}

func (f *fakeRepo) restore(snap *fakeRepo) {
	f.sales = snap.sales
	f.lines = snap.lines
	f.customerBal = snap.customerBal
	f.stock = snap.stock
	f.txnBySource = snap.txnBySource
	f.counters = snap.counters
	f.nextID = snap.nextID
}

func (f *fakeRepo) List(_ context.Context, _ ListFilters) ([]Sale, int, error) {
	out := make([]Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return Sale{}, shared.ErrNotFound
	}
	s.Lines = f.lines[id]
	return s, nil
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snap := f.snapshot()
	if err := fn(ctx, f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeRepo) NextInvoiceNumber(_ context.Context, prefix string, day time.Time) (string, error) {
	key := prefix + day.Format("20060102")
	f.counters[key]++
	return invoicing.Format(prefix, day, f.counters[key]), nil
}

func (f *fakeRepo) Insert(_ context.Context, s Sale) (Sale, error) {
	s.ID = f.nextID
	f.nextID++
	f.sales[s.ID] = s
	return s, nil
}

func (f *fakeRepo) InsertLines(_ context.Context, saleID int64, lines []Line) error {
	f.lines[saleID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeRepo) GetForUpdate(_ context.Context, id int64) (Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return Sale{}, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.sales, id)
	delete(f.lines, id)
	return nil
}

func (f *fakeRepo) AdjustCustomerBalance(_ context.Context, customerID int64, delta float64) error {
	if _, ok := f.customerBal[customerID]; !ok {
		return shared.ErrNotFound
	}
	f.customerBal[customerID] += delta
	return nil
}

func (f *fakeRepo) PostTransaction(_ context.Context, in ledger.PostingInput) (ledger.Transaction, error) {
	if err := in.Validate(); err != nil {
		return ledger.Transaction{}, err
	}
	if in.SourceID != nil {
		f.txnBySource[*in.SourceID] = in
	}
	return ledger.Transaction{ID: *in.SourceID, Type: in.Type}, nil
}

func (f *fakeRepo) DeleteTransactionForSource(_ context.Context, sourceID int64) error {
	if _, ok := f.txnBySource[sourceID]; !ok {
		return acctshared.ErrTransactionMissing
	}
	delete(f.txnBySource, sourceID)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, stubAccounts{}, nil)
	return svc.WithNow(func() time.Time {
		return time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC)
	})
}

func entryFor(t *testing.T, in ledger.PostingInput, accountID int64) ledger.EntryInput {
	t.Helper()
	for _, e := range in.Entries {
		if e.AccountID == accountID {
			return e
		}
	}
	t.Fatalf("no entry for account %d", accountID)
	return ledger.EntryInput{}
}

func TestCreateSalePartialCollection(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID:     3,
		ReceivedAmount: 300,
		Method:         ledger.MethodUPI,
		Lines:          []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 80}},
	})
	require.NoError(t, err)
	require.Equal(t, "SAL-20250714-0001", created.InvoiceNumber)
	require.Equal(t, 800.0, created.TotalAmount)
	require.Equal(t, 500.0, created.Balance())
	require.Equal(t, 500.0, repo.customerBal[3])

	posted := repo.txnBySource[created.ID]
	require.Equal(t, ledger.TransactionTypeSale, posted.Type)
	require.Equal(t, 500.0, entryFor(t, posted, receivableID).Debit)
	require.Equal(t, 300.0, entryFor(t, posted, bankID).Debit)
	require.Equal(t, 800.0, entryFor(t, posted, revenueID).Credit)
}

func TestCreateSaleFullyReceivedOmitsReceivable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID:     3,
		ReceivedAmount: 800,
		Method:         ledger.MethodCash,
		Lines:          []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 80}},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, repo.customerBal[3])

	posted := repo.txnBySource[created.ID]
	require.Len(t, posted.Entries, 2)
	require.Equal(t, 800.0, entryFor(t, posted, cashID).Debit)
	require.Equal(t, 800.0, entryFor(t, posted, revenueID).Credit)
}

// Selling does not move stock. Purchases put goods in; nothing in the
// sale path takes them out.
func TestCreateSaleLeavesStockUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID: 3,
		Lines:      []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 80}},
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, repo.stock[100])
}

func TestCreateSaleRejectsOvercollection(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID:     3,
		ReceivedAmount: 900,
		Method:         ledger.MethodCash,
		Lines:          []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 80}},
	})
	var vErr *acctshared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "receivedAmount", vErr.Field)
}

func TestDeleteSaleRestoresCustomerBalance(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID:     3,
		ReceivedAmount: 300,
		Method:         ledger.MethodCash,
		Lines:          []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 80}},
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, repo.customerBal[3])

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.Equal(t, 0.0, repo.customerBal[3])
	require.Empty(t, repo.sales)
	require.Empty(t, repo.txnBySource)
}

func TestDeleteSaleMissingTransaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateSaleInput{
		CustomerID: 3,
		Lines:      []LineInput{{ItemID: 100, Quantity: 1, UnitPrice: 80}},
	})
	require.NoError(t, err)

	delete(repo.txnBySource, created.ID)

	err = svc.Delete(context.Background(), created.ID)
	require.True(t, errors.Is(err, acctshared.ErrTransactionMissing))
	require.Contains(t, repo.sales, created.ID)
	require.Equal(t, 80.0, repo.customerBal[3])
}
