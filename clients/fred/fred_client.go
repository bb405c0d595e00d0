// Package fred reads macroeconomic series from the FRED API.
package fred

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stockrating/clients/http_client"
	"stockrating/types"
)

const (
	DefaultBaseURL = "https://api.stlouisfed.org/fred"
	DefaultTimeout = 30 * time.Second

	// Effective federal funds rate, unemployment rate and real GDP growth.
	SeriesInterestRate     = "DFF"
	SeriesUnemploymentRate = "UNRATE"
	SeriesGDPGrowth        = "A191RL1Q225SBEA"
)

// ErrNoObservations means the series returned no usable value.
var ErrNoObservations = errors.New("no observations")

type Client struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.client.SetBaseURL(baseURL)
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.SetTimeout(timeout)
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 3)
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		client:  http_client.NewClient(DefaultBaseURL, DefaultTimeout),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(2), 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Latest returns the most recent observation of a series. FRED marks
// missing observations with "."; those are skipped.
func (c *Client) Latest(ctx context.Context, seriesID string) (float64, error) {
	if c.apiKey == "" {
		return 0, errors.New("FRED API key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var result observationsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"series_id":  seriesID,
			"api_key":    c.apiKey,
			"file_type":  "json",
			"sort_order": "desc",
			"limit":      "10",
		}).
		SetResult(&result).
		Get("/series/observations")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch series %s: %w", seriesID, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
	}

	for _, obs := range result.Observations {
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("series %s: %w", seriesID, ErrNoObservations)
}

// Indicators fetches the three macro series as fractions. A series that
// fails is logged and left absent; the joined error is returned alongside
// whatever was fetched.
func (c *Client) Indicators(ctx context.Context) (types.MacroIndicators, error) {
	var (
		macro types.MacroIndicators
		errs  []error
	)

	for _, s := range []struct {
		id  string
		dst **float64
	}{
		{SeriesInterestRate, &macro.InterestRate},
		{SeriesUnemploymentRate, &macro.UnemploymentRate},
		{SeriesGDPGrowth, &macro.GDPGrowth},
	} {
		v, err := c.Latest(ctx, s.id)
		if err != nil {
			zap.L().Warn("Error fetching FRED series", zap.String("series", s.id), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		*s.dst = types.Float(v / 100)
	}

	return macro, errors.Join(errs...)
}
