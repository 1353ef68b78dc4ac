package accounting

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerdesk/ledgerdesk/internal/accounting/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/accounting/reports"
	acctshared "github.com/ledgerdesk/ledgerdesk/internal/accounting/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Handler wires the read-only ledger and report endpoints.
type Handler struct {
	logger  *slog.Logger
	ledger  *ledger.Service
	reports *reports.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, ledgerSvc *ledger.Service, reportSvc *reports.Service) *Handler {
	return &Handler{logger: logger, ledger: ledgerSvc, reports: reportSvc}
}

// MountRoutes registers HTTP routes for balances and reports.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/balance/{id}", h.Balance)
	r.Get("/ledger/{id}", h.Ledger)
	r.Get("/reports/trial-balance", h.TrialBalance)
	r.Get("/reports/balance-sheet", h.BalanceSheet)
	r.Get("/reports/profit-loss", h.ProfitLoss)
	r.Get("/reports/cash-flow", h.CashFlow)
	r.Get("/reports/aging", h.Aging)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, "Loading balance", acctshared.NewValidationError("id", "must be an integer"))
		return
	}
	asOf, err := optionalDate(r, "asOf")
	if err != nil {
		shared.WriteError(w, "Loading balance", err)
		return
	}
	summary, err := h.ledger.GetBalance(r.Context(), id, asOf)
	if err != nil {
		h.logger.Error("get balance", slog.Int64("account", id), slog.Any("error", err))
		shared.WriteError(w, "Loading balance", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, "Loading ledger", acctshared.NewValidationError("id", "must be an integer"))
		return
	}
	asOf, err := optionalDate(r, "asOf")
	if err != nil {
		shared.WriteError(w, "Loading ledger", err)
		return
	}
	view, err := h.ledger.GetLedger(r.Context(), id, asOf)
	if err != nil {
		h.logger.Error("get ledger", slog.Int64("account", id), slog.Any("error", err))
		shared.WriteError(w, "Loading ledger", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf := dateOrNow(r, "asOf")
	tb, err := h.reports.GetTrialBalance(r.Context(), asOf)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		shared.WriteError(w, "Building trial balance", err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trial-balance.csv"`)
		if err := reports.WriteTrialBalanceCSV(w, tb); err != nil {
			h.logger.Error("trial balance csv", slog.Any("error", err))
		}
		return
	}
	shared.WriteJSON(w, http.StatusOK, tb)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := h.reports.GetBalanceSheet(r.Context(), dateOrNow(r, "asOf"))
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		shared.WriteError(w, "Building balance sheet", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, bs)
}

func (h *Handler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	start, end, err := rangeDates(r)
	if err != nil {
		shared.WriteError(w, "Building profit and loss", err)
		return
	}
	pl, err := h.reports.GetProfitLoss(r.Context(), start, end)
	if err != nil {
		h.logger.Error("profit and loss", slog.Any("error", err))
		shared.WriteError(w, "Building profit and loss", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, pl)
}

func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	start, end, err := rangeDates(r)
	if err != nil {
		shared.WriteError(w, "Building cash flow", err)
		return
	}
	cf, err := h.reports.GetCashFlow(r.Context(), start, end)
	if err != nil {
		h.logger.Error("cash flow", slog.Any("error", err))
		shared.WriteError(w, "Building cash flow", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cf)
}

func (h *Handler) Aging(w http.ResponseWriter, r *http.Request) {
	agingType := reports.AgingType(r.URL.Query().Get("type"))
	if agingType == "" {
		agingType = reports.AgingReceivable
	}
	report, err := h.reports.GetAgingReport(r.Context(), dateOrNow(r, "asOf"), agingType)
	if err != nil {
		h.logger.Error("aging report", slog.Any("error", err))
		shared.WriteError(w, "Building aging report", err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="aging.csv"`)
		if err := reports.WriteAgingCSV(w, report); err != nil {
			h.logger.Error("aging csv", slog.Any("error", err))
		}
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func optionalDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, acctshared.NewValidationError(key, "expected YYYY-MM-DD")
	}
	// Include the whole cutoff day.
	cutoff := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &cutoff, nil
}

func dateOrNow(r *http.Request, key string) time.Time {
	if t, err := optionalDate(r, key); err == nil && t != nil {
		return *t
	}
	return time.Now()
}

func rangeDates(r *http.Request) (time.Time, time.Time, error) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, acctshared.NewValidationError("range", "start and end are required")
	}
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, acctshared.NewValidationError("start", "expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, acctshared.NewValidationError("end", "expected YYYY-MM-DD")
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, acctshared.NewValidationError("range", "end before start")
	}
	return start, end, nil
}
