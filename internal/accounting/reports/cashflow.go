package reports

import (
	"math"
	"strings"
)

// CashMovement is one cash-affecting transaction considered for
// investing/financing classification. Amount is signed: positive for
// inflows, negative for outflows.
type CashMovement struct {
	Description string
	Amount      float64
}

// CashFlowInput aggregates the raw figures the statement is built from.
type CashFlowInput struct {
	OpeningCash  float64
	ClosingCash  float64
	CashReceipts float64
	CashPayments float64
	Movements    []CashMovement
}

// CashFlow is the cash flow statement over a date range.
type CashFlow struct {
	Operating  float64 `json:"operating"`
	Investing  float64 `json:"investing"`
	Financing  float64 `json:"financing"`
	NetChange  float64 `json:"netChange"`
	Opening    float64 `json:"openingCash"`
	Closing    float64 `json:"closingCash"`
	Reconciled bool    `json:"reconciled"`
}

// Investing/financing nature is inferred from free-text descriptions.
// Transactions carry no structural activity field, so a description
// mentioning "loan" lands in financing whatever its real nature. The
// keyword lists are the documented contract, fragile as they are.
var (
	investingKeywords = []string{"equipment", "machinery", "vehicle", "investment", "asset purchase"}
	financingKeywords = []string{"loan", "dividend", "capital", "drawing", "interest"}
)

func matchesAny(description string, keywords []string) bool {
	lowered := strings.ToLower(description)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// BuildCashFlow assembles the statement: operating activity is the
// cash-method receipt/payment net, investing and financing are keyword
// buckets, and the reconciliation check ties net change to the cash
// account movement.
func BuildCashFlow(in CashFlowInput) CashFlow {
	cf := CashFlow{
		Operating: in.CashReceipts - in.CashPayments,
		Opening:   in.OpeningCash,
		Closing:   in.ClosingCash,
	}
	for _, m := range in.Movements {
		switch {
		case matchesAny(m.Description, investingKeywords):
			cf.Investing += m.Amount
		case matchesAny(m.Description, financingKeywords):
			cf.Financing += m.Amount
		}
	}
	cf.NetChange = cf.Operating + cf.Investing + cf.Financing
	cf.Reconciled = math.Abs(in.ClosingCash-(in.OpeningCash+cf.NetChange)) < tolerance
	return cf
}
