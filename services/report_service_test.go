package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockrating/types"
)

func TestBuildReport(t *testing.T) {
	snapshot := &types.MetricsSnapshot{
		Symbol:          "AAPL",
		PriceToEarnings: types.Float(15),
		InsiderAction:   types.InsiderBuy,
	}
	evaluation := types.Evaluation{
		Rating:   3,
		Intent:   types.IntentBuy,
		Advice:   types.AdviceOkayBuy,
		Movement: types.MovementUp,
		Breakdown: []types.Contribution{
			{Analysis: "priceToEarnings", Delta: 1},
			{Analysis: "insiderAction", Delta: 2},
		},
	}

	f, err := BuildReport(snapshot, evaluation)
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	read, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer read.Close()

	assert.Equal(t, []string{summarySheet, breakdownSheet, metricsSheet}, read.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := read.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "AAPL", cell(summarySheet, "B1"))
	assert.Equal(t, "buy", cell(summarySheet, "B2"))
	assert.Equal(t, "3", cell(summarySheet, "B3"))
	assert.Equal(t, "Okay Stock to Buy", cell(summarySheet, "B4"))

	assert.Equal(t, "priceToEarnings", cell(breakdownSheet, "A2"))
	assert.Equal(t, "2", cell(breakdownSheet, "B3"))
	assert.Equal(t, "Total", cell(breakdownSheet, "A4"))
	assert.Equal(t, "3", cell(breakdownSheet, "B4"))

	rows, err := read.GetRows(metricsSheet)
	require.NoError(t, err)
	values := map[string]string{}
	for _, r := range rows[1:] {
		values[r[0]] = r[1]
	}
	assert.Equal(t, "15", values["Price / Earnings"])
	assert.Equal(t, "n/a", values["Volume"])
	assert.Equal(t, "buy", values["Insider Action"])
}
