package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteTrialBalanceCSV serialises the trial balance to CSV.
func WriteTrialBalanceCSV(w io.Writer, tb TrialBalance) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Code", "Name", "Type", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, row := range tb.Rows {
		if err := writer.Write([]string{
			row.Code,
			row.Name,
			row.Type,
			formatFloat(row.DebitBalance),
			formatFloat(row.CreditBalance),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "Total", "", formatFloat(tb.TotalDebit), formatFloat(tb.TotalCredit)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteAgingCSV prints aging buckets to CSV.
func WriteAgingCSV(w io.Writer, report AgingReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Bucket", "Amount"}); err != nil {
		return err
	}
	for _, bucket := range report.Buckets {
		if err := writer.Write([]string{bucket.Label, formatFloat(bucket.Amount)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Total", formatFloat(report.Total)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
