// Package yahoo builds market snapshots from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stockrating/types"
)

type (
	equityFetcher func(symbol string) (*finance.Equity, error)
	closesFetcher func(symbol string, start, end time.Time) ([]decimal.Decimal, error)
)

// Client handles Yahoo Finance data operations.
type Client struct {
	limiter     *rate.Limiter
	fetchEquity equityFetcher
	fetchCloses closesFetcher
	now         func() time.Time
}

func NewClient(requestsPerSecond float64) *Client {
	return &Client{
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 2),
		fetchEquity: equity.Get,
		fetchCloses: dailyCloses,
		now:         time.Now,
	}
}

// Snapshot returns the market part of a snapshot. It returns nil, nil when
// Yahoo has no equity for the symbol.
func (c *Client) Snapshot(ctx context.Context, symbol string) (*types.MetricsSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	eq, err := c.fetchEquity(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, nil
	}

	now := c.now()
	snapshot := &types.MetricsSnapshot{
		Symbol:    symbol,
		FetchedAt: now,

		CurrentPrice:       present(eq.RegularMarketPrice),
		Volume:             present(float64(eq.RegularMarketVolume)),
		AverageVolumeProxy: present(float64(eq.AverageDailyVolume3Month)),
		Average50Day:       present(eq.FiftyDayAverage),
		Average200Day:      present(eq.TwoHundredDayAverage),
		PriceToEarnings:    present(eq.TrailingPE),
		PriceToBook:        present(eq.PriceToBook),
		DividendYield:      present(eq.TrailingAnnualDividendYield),
		EarningsGrowth:     epsGrowth(eq.EpsTrailingTwelveMonths, eq.EpsForward),
	}

	if snapshot.Average50Day == nil || snapshot.Average200Day == nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		closes, err := c.fetchCloses(symbol, now.AddDate(-1, 0, 0), now)
		if err != nil {
			zap.L().Warn("Error fetching price history", zap.String("symbol", symbol), zap.Error(err))
		}
		if snapshot.Average50Day == nil {
			snapshot.Average50Day = trailingAverage(closes, 50)
		}
		if snapshot.Average200Day == nil {
			snapshot.Average200Day = trailingAverage(closes, 200)
		}
	}

	return snapshot, nil
}

// dailyCloses reads daily closing prices between start and end.
func dailyCloses(symbol string, start, end time.Time) ([]decimal.Decimal, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var closes []decimal.Decimal
	for iter.Next() {
		closes = append(closes, iter.Bar().Close)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}
	return closes, nil
}

// present treats Yahoo's zero value as a missing field; the library
// cannot tell the two apart.
func present(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return types.Float(v)
}

// epsGrowth estimates earnings growth as forward EPS over trailing EPS.
func epsGrowth(trailing, forward float64) *float64 {
	if trailing == 0 || forward == 0 {
		return nil
	}
	t := decimal.NewFromFloat(trailing)
	growth := decimal.NewFromFloat(forward).Sub(t).Div(t.Abs())
	return types.Float(growth.InexactFloat64())
}

// trailingAverage averages the last window closes. It returns nil when
// fewer than window closes are available.
func trailingAverage(closes []decimal.Decimal, window int) *float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}
	sum := decimal.Zero
	for _, c := range closes[len(closes)-window:] {
		sum = sum.Add(c)
	}
	return types.Float(sum.Div(decimal.NewFromInt(int64(window))).InexactFloat64())
}
