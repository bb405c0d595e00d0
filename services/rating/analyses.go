package rating

import (
	"math"

	"stockrating/types"
)

// analysis scores one facet of a snapshot. It returns 0 when any of its
// inputs is missing.
type analysis struct {
	name  string
	score func(s *types.MetricsSnapshot) int
}

// battery lists every analysis in the order reported in a breakdown.
var battery = []analysis{
	{"volume", volumeAnalysis},
	{"priceToEarnings", priceToEarningsAnalysis},
	{"priceToBook", priceToBookAnalysis},
	{"dividendYield", dividendYieldAnalysis},
	{"earningsGrowth", earningsGrowthAnalysis},
	{"debtToEquity", debtToEquityAnalysis},
	{"rsi", rsiAnalysis},
	{"movingAverage", movingAverageAnalysis},
	{"economicClimate", economicClimateAnalysis},
	{"sentiment", sentimentAnalysis},
	{"insiderAction", insiderActionAnalysis},
	{"valueGrowth", valueGrowthAnalysis},
}

func volumeAnalysis(s *types.MetricsSnapshot) int {
	if s.Volume == nil || s.AverageVolumeProxy == nil {
		return 0
	}
	volume, avg := *s.Volume, *s.AverageVolumeProxy
	if volume > avg*1.1 {
		return 2
	} else if volume < avg*0.9 {
		return -2
	}
	return 0
}

func priceToEarningsAnalysis(s *types.MetricsSnapshot) int {
	if s.PriceToEarnings == nil {
		return 0
	}
	pe := *s.PriceToEarnings
	if pe >= 10 && pe <= 20 {
		return 2
	} else if pe > 20 {
		return -1
	}
	return 0
}

func priceToBookAnalysis(s *types.MetricsSnapshot) int {
	if s.PriceToBook == nil {
		return 0
	}
	pb := *s.PriceToBook
	if pb > 0 && pb < 1 {
		return 2
	} else if pb > 3 {
		return -2
	}
	return 0
}

func dividendYieldAnalysis(s *types.MetricsSnapshot) int {
	if s.DividendYield != nil && *s.DividendYield > 0.05 {
		return 2
	}
	return 0
}

func earningsGrowthAnalysis(s *types.MetricsSnapshot) int {
	if s.EarningsGrowth != nil && *s.EarningsGrowth > 0.05 {
		return 2
	}
	return 0
}

func debtToEquityAnalysis(s *types.MetricsSnapshot) int {
	if s.DebtToEquity == nil {
		return 0
	}
	de := *s.DebtToEquity
	if de >= 0 && de <= 0.5 {
		return 2
	} else if de > 0.7 {
		return -2
	}
	return 0
}

func rsiAnalysis(s *types.MetricsSnapshot) int {
	if s.RSI == nil {
		return 0
	}
	if *s.RSI > 70 {
		return -2
	} else if *s.RSI < 30 {
		return 2
	}
	return 0
}

// movingAverageAnalysis rewards a price stacked above a rising trend and
// penalises the mirror image.
func movingAverageAnalysis(s *types.MetricsSnapshot) int {
	if s.CurrentPrice == nil || s.Average50Day == nil || s.Average200Day == nil {
		return 0
	}
	price, avg50, avg200 := *s.CurrentPrice, *s.Average50Day, *s.Average200Day
	if price > avg50 && avg50 > avg200 {
		return 2
	} else if price < avg50 && avg50 < avg200 {
		return -2
	}
	return 0
}

// economicClimateAnalysis adds a point for each favourable macro indicator
// that is known.
func economicClimateAnalysis(s *types.MetricsSnapshot) int {
	score := 0
	if s.InterestRate != nil && *s.InterestRate < 0.03 {
		score++
	}
	if s.UnemploymentRate != nil && *s.UnemploymentRate < 0.05 {
		score++
	}
	if s.GDPGrowth != nil && *s.GDPGrowth > 0.03 {
		score++
	}
	return score
}

func sentimentAnalysis(s *types.MetricsSnapshot) int {
	return scaled(s.SentimentScore)
}

func insiderActionAnalysis(s *types.MetricsSnapshot) int {
	switch s.InsiderAction {
	case types.InsiderBuy:
		return 2
	case types.InsiderSell:
		return -2
	}
	return 0
}

func valueGrowthAnalysis(s *types.MetricsSnapshot) int {
	return scaled(s.ValueScore) + scaled(s.GrowthScore)
}

// scaledLimit bounds a single scaled term so that the three scaled terms
// plus every fixed delta still fit in an int when summed.
const scaledLimit = math.MaxInt / 4

// scaled maps a fractional score onto the rating scale as floor(score*5),
// clamped to ±scaledLimit. Non-finite scores have no integer floor and
// count as absent.
func scaled(score *float64) int {
	if score == nil || math.IsNaN(*score) || math.IsInf(*score, 0) {
		return 0
	}
	v := math.Floor(*score * 5)
	switch {
	case v >= float64(scaledLimit):
		return scaledLimit
	case v <= -float64(scaledLimit):
		return -scaledLimit
	}
	return int(v)
}
