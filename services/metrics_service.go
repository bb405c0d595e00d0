package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"stockrating/types"
)

// ErrNotFound is returned when no market data exists for a symbol.
var ErrNotFound = errors.New("symbol not found")

// MarketSource returns the per-ticker part of a snapshot, or nil when the
// ticker is unknown.
type MarketSource interface {
	Snapshot(ctx context.Context, symbol string) (*types.MetricsSnapshot, error)
}

// MacroSource returns economy-wide indicators. It may return partial
// indicators together with an error.
type MacroSource interface {
	Indicators(ctx context.Context) (types.MacroIndicators, error)
}

// SupplementSource fills fields the market source left absent.
type SupplementSource interface {
	Supplement(ctx context.Context, symbol string, snapshot *types.MetricsSnapshot) error
}

// SnapshotCache stores recent snapshots. Get returns nil on a miss.
type SnapshotCache interface {
	Get(ctx context.Context, symbol string) (*types.MetricsSnapshot, error)
	Put(ctx context.Context, snapshot *types.MetricsSnapshot) error
}

type MetricsServiceI interface {
	FetchSnapshot(ctx context.Context, symbol string) (*types.MetricsSnapshot, error)
}

type metricsService struct {
	market      MarketSource
	macro       MacroSource
	supplements []SupplementSource
	cache       SnapshotCache
}

// MetricsService is replaced at startup by NewMetricsService.
var MetricsService MetricsServiceI = &metricsService{}

// NewMetricsService blends the sources into one provider. macro, cache and
// supplements are optional.
func NewMetricsService(market MarketSource, macro MacroSource, cache SnapshotCache, supplements ...SupplementSource) MetricsServiceI {
	return &metricsService{
		market:      market,
		macro:       macro,
		supplements: supplements,
		cache:       cache,
	}
}

func (m *metricsService) FetchSnapshot(ctx context.Context, symbol string) (*types.MetricsSnapshot, error) {
	span := sentry.StartSpan(ctx, "[Provider] FetchSnapshot")
	defer span.Finish()
	ctx = span.Context()

	if m.market == nil {
		return nil, errors.New("no market source configured")
	}

	if m.cache != nil {
		cached, err := m.cache.Get(ctx, symbol)
		if err != nil {
			zap.L().Warn("Snapshot cache read failed", zap.String("symbol", symbol), zap.Error(err))
		} else if cached != nil {
			zap.L().Debug("Snapshot cache hit", zap.String("symbol", symbol))
			return cached, nil
		}
	}

	marketSpan := sentry.StartSpan(ctx, "[Provider] Market")
	snapshot, err := m.market.Snapshot(ctx, symbol)
	marketSpan.Finish()
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, fmt.Errorf("market data for %s: %w", symbol, err)
	}
	if snapshot == nil {
		span.Status = sentry.SpanStatusNotFound
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	if m.macro != nil {
		macroSpan := sentry.StartSpan(ctx, "[Provider] Macro")
		macro, err := m.macro.Indicators(ctx)
		macroSpan.Finish()
		if err != nil {
			zap.L().Warn("Macro indicators incomplete", zap.Error(err))
		}
		snapshot.InterestRate = macro.InterestRate
		snapshot.UnemploymentRate = macro.UnemploymentRate
		snapshot.GDPGrowth = macro.GDPGrowth
	}

	for _, s := range m.supplements {
		if err := s.Supplement(ctx, symbol, snapshot); err != nil {
			zap.L().Warn("Supplement source failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	if m.cache != nil {
		if err := m.cache.Put(ctx, snapshot); err != nil {
			zap.L().Warn("Snapshot cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	span.Status = sentry.SpanStatusOK
	return snapshot, nil
}
