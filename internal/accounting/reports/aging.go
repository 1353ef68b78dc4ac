package reports

import "time"

// AgingType selects which side of the book is aged.
type AgingType string

const (
	AgingReceivable AgingType = "RECEIVABLE"
	AgingPayable    AgingType = "PAYABLE"
)

// AgingItem is one outstanding document balance with its origin date.
type AgingItem struct {
	Reference   string
	PartyName   string
	Date        time.Time
	Outstanding float64
}

// AgingBucket sums outstanding amounts whose age falls inside the bucket.
type AgingBucket struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// AgingReport buckets outstanding balances by elapsed days.
type AgingReport struct {
	Type    AgingType     `json:"type"`
	Buckets []AgingBucket `json:"buckets"`
	Total   float64       `json:"total"`
}

// BuildAging distributes outstanding items into the standard
// {0-30, 31-60, 61-90, >90} day buckets as of the cutoff date.
func BuildAging(asOf time.Time, agingType AgingType, items []AgingItem) AgingReport {
	buckets := []AgingBucket{
		{Label: "0-30"},
		{Label: "31-60"},
		{Label: "61-90"},
		{Label: ">90"},
	}
	var total float64
	for _, item := range items {
		if item.Outstanding <= 0 {
			continue
		}
		age := int(asOf.Sub(item.Date).Hours() / 24)
		idx := 0
		switch {
		case age > 90:
			idx = 3
		case age > 60:
			idx = 2
		case age > 30:
			idx = 1
		}
		buckets[idx].Amount += item.Outstanding
		total += item.Outstanding
	}
	return AgingReport{Type: agingType, Buckets: buckets, Total: total}
}
