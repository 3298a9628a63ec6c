package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ExportMode string

const (
	ExportSummary  ExportMode = "summary"
	ExportDetailed ExportMode = "detailed"
)

var csvHeader = []string{
	"order_number", "source", "order_type", "status",
	"customer_name", "total_amount", "created_at",
}

// ToCSV renders the snapshot as an RFC 4180 CSV transaction ledger. The
// final TOTAL row sums total_amount over every exported order, cancelled
// included: the export is a ledger, not a sales report, so it deliberately
// does not apply the cancelled-exclusion rule the aggregates use.
func ToCSV(orders []Order) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	var total float64
	for _, o := range orders {
		total += o.TotalAmount
		record := []string{
			o.OrderNumber,
			string(o.Source),
			o.OrderType,
			o.Status,
			o.CustomerName,
			fmt.Sprintf("%.2f", o.TotalAmount),
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	totals := []string{"TOTAL", "", "", "", "", fmt.Sprintf("%.2f", total), ""}
	if err := w.Write(totals); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ToJSON renders the snapshot as JSON. Detailed mode includes line items;
// summary mode strips them and prepends the aggregate summary.
func ToJSON(orders []Order, mode ExportMode) (string, error) {
	switch mode {
	case ExportDetailed:
		data, err := json.MarshalIndent(orders, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case ExportSummary:
		slim := make([]Order, len(orders))
		for i, o := range orders {
			o.Items = nil
			slim[i] = o
		}
		payload := struct {
			Summary Summary `json:"summary"`
			Orders  []Order `json:"orders"`
		}{
			Summary: Summarize(orders),
			Orders:  slim,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown export mode: %q", mode)
}
