package reports

// ProfitLoss is the trading profit & loss statement over a date range.
// Revenue and COGS come from the sale/purchase document totals rather
// than the ledger, matching how the business reads its margins.
type ProfitLoss struct {
	Revenue        float64 `json:"revenue"`
	COGS           float64 `json:"cogs"`
	GrossProfit    float64 `json:"grossProfit"`
	Expenses       float64 `json:"expenses"`
	NetProfit      float64 `json:"netProfit"`
	GrossMarginPct float64 `json:"grossMarginPct"`
	NetMarginPct   float64 `json:"netMarginPct"`
}

// BuildProfitLoss computes the P&L figures. Margins are zero when
// revenue is zero rather than dividing by it.
func BuildProfitLoss(revenue, cogs, expenses float64) ProfitLoss {
	pl := ProfitLoss{
		Revenue:     revenue,
		COGS:        cogs,
		GrossProfit: revenue - cogs,
		Expenses:    expenses,
	}
	pl.NetProfit = pl.GrossProfit - expenses
	if revenue != 0 {
		pl.GrossMarginPct = pl.GrossProfit / revenue * 100
		pl.NetMarginPct = pl.NetProfit / revenue * 100
	}
	return pl
}
