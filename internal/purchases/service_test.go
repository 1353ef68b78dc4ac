package purchases

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
	cashID      = int64(1)
	bankID      = int64(2)
	payableID   = int64(3)
	inventoryID = int64(5)
)

type stubAccounts struct{}

func (stubAccounts) Account(code ledger.SystemCode) (int64, error) {
	switch code {
	case ledger.CodeCash:
		return cashID, nil
	case ledger.CodeBank:
		return bankID, nil
	case ledger.CodeAccountsPayable:
		return payableID, nil
	case ledger.CodeInventory:
		return inventoryID, nil
	}
	return 0, acctshared.ErrSystemAccountMissing
}

func (s stubAccounts) SettlementAccount(method ledger.PaymentMethod) (int64, error) {
	if method == ledger.MethodCash {
		return cashID, nil
	}
	return bankID, nil
}

// fakeRepo keeps all state in maps and simulates transactional rollback
// by restoring a snapshot when the WithTx callback fails.
type fakeRepo struct {
	purchases   map[int64]Purchase
	lines       map[int64][]Line
	stock       map[int64]float64
	supplierBal map[int64]float64
	txnBySource map[int64]ledger.PostingInput
	counters    map[string]int
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		purchases:   map[int64]Purchase{},
		lines:       map[int64][]Line{},
		stock:       map[int64]float64{100: 0},
		supplierBal: map[int64]float64{9: 0},
		txnBySource: map[int64]ledger.PostingInput{},
		counters:    map[string]int{},
		nextID:      1,
	}
}

func (f *fakeRepo) snapshot() *fakeRepo {
	c := newFakeRepo()
	c.nextID = f.nextID
	for k, v := range f.purchases {
		c.purchases[k] = v
	}
	for k, v := range f.lines {
		c.lines[k] = append([]Line(nil), v...)
	}
	c.stock = map[int64]float64{}
	for k, v := range f.stock {
		c.stock[k] = v
	}
	c.supplierBal = map[int64]float64{}
	for k, v := range f.supplierBal {
		c.supplierBal[k] = v
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
	f.purchases = snap.purchases
	f.lines = snap.lines
	f.stock = snap.stock
	f.supplierBal = snap.supplierBal
	f.txnBySource = snap.txnBySource
	f.counters = snap.counters
	f.nextID = snap.nextID
}

func (f *fakeRepo) List(_ context.Context, _ ListFilters) ([]Purchase, int, error) {
	out := make([]Purchase, 0, len(f.purchases))
	for _, p := range f.purchases {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return Purchase{}, shared.ErrNotFound
	}
	p.Lines = f.lines[id]
	return p, nil
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

func (f *fakeRepo) Insert(_ context.Context, p Purchase) (Purchase, error) {
	p.ID = f.nextID
	f.nextID++
	f.purchases[p.ID] = p
	return p, nil
}

func (f *fakeRepo) InsertLines(_ context.Context, purchaseID int64, lines []Line) error {
	f.lines[purchaseID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeRepo) GetForUpdate(_ context.Context, id int64) (Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return Purchase{}, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Lines(_ context.Context, purchaseID int64) ([]Line, error) {
	return f.lines[purchaseID], nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.purchases[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.purchases, id)
	delete(f.lines, id)
	return nil
}

func (f *fakeRepo) AdjustStock(_ context.Context, itemID int64, delta float64) error {
	if _, ok := f.stock[itemID]; !ok {
		return shared.ErrNotFound
	}
	f.stock[itemID] += delta
	return nil
}

func (f *fakeRepo) AdjustSupplierBalance(_ context.Context, supplierID int64, delta float64) error {
	if _, ok := f.supplierBal[supplierID]; !ok {
		return shared.ErrNotFound
	}
	f.supplierBal[supplierID] += delta
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

func fixedNow() time.Time {
	return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, stubAccounts{}, nil).WithNow(fixedNow)
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

func TestCreatePurchasePartialPayment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		PaidAmount: 400,
		Method:     ledger.MethodCash,
		Lines:      []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, "PUR-20250714-0001", created.InvoiceNumber)
	require.Equal(t, 1000.0, created.TotalAmount)
	require.Equal(t, 600.0, created.Balance())

	require.Equal(t, 10.0, repo.stock[100])
	require.Equal(t, 600.0, repo.supplierBal[9])

	posted := repo.txnBySource[created.ID]
	require.Equal(t, ledger.TransactionTypePurchase, posted.Type)
	require.Len(t, posted.Entries, 3)
	require.Equal(t, 1000.0, entryFor(t, posted, inventoryID).Debit)
	require.Equal(t, 600.0, entryFor(t, posted, payableID).Credit)
	require.Equal(t, 400.0, entryFor(t, posted, cashID).Credit)
}

func TestCreatePurchaseWeightDeduction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		Lines:      []LineInput{{ItemID: 100, Quantity: 100, WeightDeduction: 2, UnitPrice: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 980.0, created.TotalAmount)
	require.Equal(t, 98.0, repo.stock[100])
	require.Equal(t, 980.0, repo.supplierBal[9])
}

func TestCreatePurchaseFullPaymentOmitsPayable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		PaidAmount: 500,
		Method:     ledger.MethodBankTransfer,
		Lines:      []LineInput{{ItemID: 100, Quantity: 5, UnitPrice: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, repo.supplierBal[9])

	posted := repo.txnBySource[created.ID]
	require.Len(t, posted.Entries, 2)
	require.Equal(t, 500.0, entryFor(t, posted, bankID).Credit)
}

func TestCreatePurchaseRollsBackOnUnknownItem(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		Lines:      []LineInput{{ItemID: 404, Quantity: 1, UnitPrice: 50}},
	})
	require.Error(t, err)
	require.Empty(t, repo.purchases)
	require.Empty(t, repo.txnBySource)
	require.Equal(t, 0.0, repo.supplierBal[9])
}

func TestCreatePurchaseRejectsOverpayment(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		PaidAmount: 2000,
		Method:     ledger.MethodCash,
		Lines:      []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 100}},
	})
	var vErr *acctshared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "paidAmount", vErr.Field)
}

func TestInvoiceNumbersSequentialWithinDay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	for i, want := range []string{"PUR-20250714-0001", "PUR-20250714-0002", "PUR-20250714-0003"} {
		created, err := svc.Create(context.Background(), CreatePurchaseInput{
			SupplierID: 9,
			Lines:      []LineInput{{ItemID: 100, Quantity: 1, UnitPrice: 10}},
		})
		require.NoError(t, err, "purchase %d", i)
		require.Equal(t, want, created.InvoiceNumber)
	}
}

func TestDeletePurchaseReversesSideEffects(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		PaidAmount: 400,
		Method:     ledger.MethodCash,
		Lines:      []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 100}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.Equal(t, 0.0, repo.stock[100])
	require.Equal(t, 0.0, repo.supplierBal[9])
	require.Empty(t, repo.purchases)
	require.Empty(t, repo.txnBySource)
}

func TestDeletePurchaseMissingTransaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 9,
		Lines:      []LineInput{{ItemID: 100, Quantity: 10, UnitPrice: 100}},
	})
	require.NoError(t, err)

	// Simulate books drifting out of sync.
	delete(repo.txnBySource, created.ID)

	err = svc.Delete(context.Background(), created.ID)
	require.True(t, errors.Is(err, acctshared.ErrTransactionMissing))

	// Rollback restored every side effect.
	require.Equal(t, 10.0, repo.stock[100])
	require.Equal(t, 1000.0, repo.supplierBal[9])
	require.Contains(t, repo.purchases, created.ID)
}
