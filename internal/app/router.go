package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/expenses"
	"github.com/ledgerdesk/ledgerdesk/internal/inventory"
	"github.com/ledgerdesk/ledgerdesk/internal/observability"
	"github.com/ledgerdesk/ledgerdesk/internal/partners"
	"github.com/ledgerdesk/ledgerdesk/internal/payments"
	"github.com/ledgerdesk/ledgerdesk/internal/purchases"
	"github.com/ledgerdesk/ledgerdesk/internal/sales"
	"github.com/ledgerdesk/ledgerdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Pool              *pgxpool.Pool
	AccountsHandler   *accounts.Handler
	AccountingHandler *accounting.Handler
	PartnersHandler   *partners.Handler
	InventoryHandler  *inventory.Handler
	PurchasesHandler  *purchases.Handler
	SalesHandler      *sales.Handler
	PaymentsHandler   *payments.Handler
	ExpensesHandler   *expenses.Handler
	JobsHandler       *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with LedgerDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Pool != nil {
			if err := params.Pool.Ping(r.Context()); err != nil {
				params.Logger.Error("health check ping", slog.Any("error", err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", params.AccountsHandler.MountRoutes)
		r.Route("/accounting", params.AccountingHandler.MountRoutes)
		r.Route("/suppliers", params.PartnersHandler.MountSupplierRoutes)
		r.Route("/customers", params.PartnersHandler.MountCustomerRoutes)
		r.Route("/items", params.InventoryHandler.MountRoutes)
		r.Route("/purchases", params.PurchasesHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/payments", params.PaymentsHandler.MountPaymentRoutes)
		r.Route("/receipts", params.PaymentsHandler.MountReceiptRoutes)
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
