package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/accounts"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/reports"
	"github.com/ledgerdesk/ledgerdesk/internal/app"
	"github.com/ledgerdesk/ledgerdesk/internal/expenses"
	"github.com/ledgerdesk/ledgerdesk/internal/inventory"
	"github.com/ledgerdesk/ledgerdesk/internal/observability"
	"github.com/ledgerdesk/ledgerdesk/internal/partners"
	"github.com/ledgerdesk/ledgerdesk/internal/payments"
	"github.com/ledgerdesk/ledgerdesk/internal/purchases"
	"github.com/ledgerdesk/ledgerdesk/internal/sales"
	"github.com/ledgerdesk/ledgerdesk/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	ledger.ObservePosting = metrics.CountPosting

	accountRepo := accounts.NewRepository(dbpool)
	accountService := accounts.NewService(accountRepo)

	resolver := ledger.NewResolver(accountRepo)
	if err := resolver.Refresh(ctx); err != nil {
		logger.Error("resolve system accounts", slog.Any("error", err))
		os.Exit(1)
	}
	accountService.SetRefresher(resolver)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(accountRepo, ledgerRepo)

	reportCache := reports.NewCache(redisClient, 10*time.Minute)
	reportService := reports.NewService(reports.NewRepository(dbpool), accountRepo, ledgerRepo, resolver, reportCache)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewNotifier(jobsClient, logger)

	partnerService := partners.NewService(partners.NewSupplierRepository(dbpool), partners.NewCustomerRepository(dbpool))
	inventoryService := inventory.NewService(inventory.NewRepository(dbpool))
	purchaseService := purchases.NewService(purchases.NewRepository(dbpool), resolver, notifier)
	saleService := sales.NewService(sales.NewRepository(dbpool), resolver, notifier)
	paymentService := payments.NewService(payments.NewRepository(dbpool), resolver, notifier)
	expenseService := expenses.NewService(expenses.NewRepository(dbpool), accountRepo, resolver, notifier)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Pool:              dbpool,
		AccountsHandler:   accounts.NewHandler(logger, accountService),
		AccountingHandler: accounting.NewHandler(logger, ledgerService, reportService),
		PartnersHandler:   partners.NewHandler(logger, partnerService),
		InventoryHandler:  inventory.NewHandler(logger, inventoryService),
		PurchasesHandler:  purchases.NewHandler(logger, purchaseService),
		SalesHandler:      sales.NewHandler(logger, saleService),
		PaymentsHandler:   payments.NewHandler(logger, paymentService),
		ExpensesHandler:   expenses.NewHandler(logger, expenseService),
		JobsHandler:       jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
