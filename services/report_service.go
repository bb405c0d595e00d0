package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"stockrating/types"
)

const (
	summarySheet   = "Summary"
	breakdownSheet = "Breakdown"
	metricsSheet   = "Metrics"
)

type metricRow struct {
	label string
	value *float64
}

func metricRows(s *types.MetricsSnapshot) []metricRow {
	return []metricRow{
		{"Volume", s.Volume},
		{"Average Volume", s.AverageVolumeProxy},
		{"Current Price", s.CurrentPrice},
		{"50 Day Average", s.Average50Day},
		{"200 Day Average", s.Average200Day},
		{"Price / Earnings", s.PriceToEarnings},
		{"Price / Book", s.PriceToBook},
		{"Dividend Yield", s.DividendYield},
		{"Earnings Growth", s.EarningsGrowth},
		{"Debt / Equity", s.DebtToEquity},
		{"RSI", s.RSI},
		{"Interest Rate", s.InterestRate},
		{"Unemployment Rate", s.UnemploymentRate},
		{"GDP Growth", s.GDPGrowth},
		{"Sentiment Score", s.SentimentScore},
		{"Value Score", s.ValueScore},
		{"Growth Score", s.GrowthScore},
	}
}

// BuildReport lays out an evaluation and the snapshot behind it as a
// workbook with summary, per-analysis breakdown and raw metrics sheets.
func BuildReport(snapshot *types.MetricsSnapshot, evaluation types.Evaluation) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{breakdownSheet, metricsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Symbol", snapshot.Symbol},
		{"Intent", string(evaluation.Intent)},
		{"Rating", evaluation.Rating},
		{"Advice", string(evaluation.Advice)},
		{"Movement", string(evaluation.Movement)},
	}
	if !snapshot.FetchedAt.IsZero() {
		summary = append(summary, []interface{}{"Fetched At", snapshot.FetchedAt.UTC().Format("2006-01-02 15:04:05")})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), header); err != nil {
		return nil, err
	}

	breakdown := [][]interface{}{{"Analysis", "Delta"}}
	for _, c := range evaluation.Breakdown {
		breakdown = append(breakdown, []interface{}{c.Analysis, c.Delta})
	}
	breakdown = append(breakdown, []interface{}{"Total", evaluation.Rating})
	if err := writeRows(f, breakdownSheet, breakdown); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(breakdownSheet, "A1", "B1", header); err != nil {
		return nil, err
	}

	metrics := [][]interface{}{{"Metric", "Value"}}
	for _, m := range metricRows(snapshot) {
		if m.value == nil {
			metrics = append(metrics, []interface{}{m.label, "n/a"})
			continue
		}
		metrics = append(metrics, []interface{}{m.label, *m.value})
	}
	insider := string(snapshot.InsiderAction)
	if insider == "" {
		insider = "n/a"
	}
	metrics = append(metrics, []interface{}{"Insider Action", insider})
	if err := writeRows(f, metricsSheet, metrics); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(metricsSheet, "A1", "B1", header); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}
