package types

import (
	"fmt"
	"time"
)

// Intent is what the user plans to do with the stock.
type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentSell Intent = "sell"
)

// InsiderAction is the most recent direction of insider trading.
// The empty value means the action is unknown.
type InsiderAction string

const (
	InsiderBuy  InsiderAction = "buy"
	InsiderSell InsiderAction = "sell"
)

// Advice is the recommendation label shown to the user.
type Advice string

const (
	AdviceVeryGoodBuy Advice = "Very Good Stock to Buy"
	AdviceGoodBuy     Advice = "Good Stock to Buy"
	AdviceOkayBuy     Advice = "Okay Stock to Buy"
	AdviceNeutral     Advice = "Neutral Stock"
	AdviceBadBuy      Advice = "Bad Stock to Buy"
	AdviceSell        Advice = "Sell the Stock"
	AdviceHold        Advice = "Hold the Stock"
)

// Movement is the qualitative price direction derived from a rating.
type Movement string

const (
	MovementUp        Movement = "likely to go up"
	MovementDown      Movement = "likely to go down"
	MovementUncertain Movement = "movement is uncertain"
)

// MetricsSnapshot is the bundle of indicators scored for one request.
// A nil field is absent; a zero field is present and gets compared.
type MetricsSnapshot struct {
	Symbol    string    `json:"symbol,omitempty" bson:"symbol"`
	FetchedAt time.Time `json:"fetchedAt,omitempty" bson:"fetchedAt"`

	Volume             *float64 `json:"volume,omitempty" bson:"volume,omitempty"`
	AverageVolumeProxy *float64 `json:"averageVolumeProxy,omitempty" bson:"averageVolumeProxy,omitempty"`

	CurrentPrice  *float64 `json:"currentPrice,omitempty" bson:"currentPrice,omitempty"`
	Average50Day  *float64 `json:"average50Day,omitempty" bson:"average50Day,omitempty"`
	Average200Day *float64 `json:"average200Day,omitempty" bson:"average200Day,omitempty"`

	PriceToEarnings *float64 `json:"priceToEarnings,omitempty" bson:"priceToEarnings,omitempty"`
	PriceToBook     *float64 `json:"priceToBook,omitempty" bson:"priceToBook,omitempty"`
	DividendYield   *float64 `json:"dividendYield,omitempty" bson:"dividendYield,omitempty"`
	EarningsGrowth  *float64 `json:"earningsGrowth,omitempty" bson:"earningsGrowth,omitempty"`
	DebtToEquity    *float64 `json:"debtToEquity,omitempty" bson:"debtToEquity,omitempty"`

	RSI *float64 `json:"rsi,omitempty" bson:"rsi,omitempty"`

	InterestRate     *float64 `json:"interestRate,omitempty" bson:"interestRate,omitempty"`
	UnemploymentRate *float64 `json:"unemploymentRate,omitempty" bson:"unemploymentRate,omitempty"`
	GDPGrowth        *float64 `json:"gdpGrowth,omitempty" bson:"gdpGrowth,omitempty"`

	SentimentScore *float64      `json:"sentimentScore,omitempty" bson:"sentimentScore,omitempty"`
	InsiderAction  InsiderAction `json:"insiderAction,omitempty" bson:"insiderAction,omitempty"`
	ValueScore     *float64      `json:"valueScore,omitempty" bson:"valueScore,omitempty"`
	GrowthScore    *float64      `json:"growthScore,omitempty" bson:"growthScore,omitempty"`
}

// MacroIndicators are the economy-wide inputs shared by every snapshot.
type MacroIndicators struct {
	InterestRate     *float64 `json:"interestRate,omitempty"`
	UnemploymentRate *float64 `json:"unemploymentRate,omitempty"`
	GDPGrowth        *float64 `json:"gdpGrowth,omitempty"`
}

// Contribution is the delta one analysis added to the rating.
type Contribution struct {
	Analysis string `json:"analysis"`
	Delta    int    `json:"delta"`
}

// Evaluation is the output of scoring a snapshot for an intent.
type Evaluation struct {
	Rating    int            `json:"rating"`
	Intent    Intent         `json:"intent"`
	Advice    Advice         `json:"advice"`
	Movement  Movement       `json:"movement"`
	Breakdown []Contribution `json:"breakdown"`
}

// Message renders the evaluation as the sentence shown on the result page.
func (e Evaluation) Message() string {
	return fmt.Sprintf("Stock Rating: %s. Based on the analysis, the stock's %s.", e.Advice, e.Movement)
}

// AnalysisEvent is published after a ticker has been analyzed.
type AnalysisEvent struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Intent    Intent    `json:"intent"`
	Rating    int       `json:"rating"`
	Advice    Advice    `json:"advice"`
	Movement  Movement  `json:"movement"`
	CreatedAt time.Time `json:"createdAt"`
}

// Float returns a pointer to v, for populating optional snapshot fields.
func Float(v float64) *float64 {
	return &v
}
