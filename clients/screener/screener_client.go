// Package screener fills fundamentals missing from the market source by
// scraping the top-ratio list of a company page.
package screener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"stockrating/clients/http_client"
	"stockrating/types"
	"stockrating/utils/helpers"
)

type Client struct {
	client *resty.Client
}

// NewClient targets baseURL, e.g. https://www.screener.in.
func NewClient(baseURL string) *Client {
	return &Client{client: http_client.NewClient(baseURL, 20*time.Second)}
}

// Supplement sets P/E, dividend yield, P/B, debt to equity and price on
// snapshot where they are still absent. Fields already present are never
// overwritten. Debt to equity is only listed when the page owner added it
// to the ratio list.
func (c *Client) Supplement(ctx context.Context, symbol string, snapshot *types.MetricsSnapshot) error {
	ratios, err := c.TopRatios(ctx, symbol)
	if err != nil {
		return err
	}

	if snapshot.PriceToEarnings == nil {
		if v, ok := helpers.ToFloat(ratios["Stock P/E"]); ok {
			snapshot.PriceToEarnings = &v
		}
	}
	if snapshot.DividendYield == nil {
		if v, ok := helpers.ToFloat(ratios["Dividend Yield"]); ok {
			snapshot.DividendYield = &v
		}
	}
	if snapshot.PriceToBook == nil {
		price, okPrice := helpers.ToFloat(ratios["Current Price"])
		book, okBook := helpers.ToFloat(ratios["Book Value"])
		if okPrice && okBook && book != 0 {
			pb := price / book
			snapshot.PriceToBook = &pb
		}
	}
	if snapshot.DebtToEquity == nil {
		if v, ok := helpers.ToFloat(ratios["Debt to equity"]); ok {
			snapshot.DebtToEquity = &v
		}
	}
	if snapshot.CurrentPrice == nil {
		if v, ok := helpers.ToFloat(ratios["Current Price"]); ok {
			snapshot.CurrentPrice = &v
		}
	}
	return nil
}

// TopRatios returns the name/value pairs of the company page's ratio list.
func (c *Client) TopRatios(ctx context.Context, symbol string) (map[string]string, error) {
	url := fmt.Sprintf("/company/%s/", strings.ToUpper(symbol))
	body, err := http_client.GetCompanyPage(ctx, c.client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the company page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the HTML content: %w", err)
	}

	return ParseTopRatios(doc), nil
}

// ParseTopRatios extracts the ratio list. Currency symbols and crore units
// are dropped; percent signs are kept so values parse as fractions.
func ParseTopRatios(doc *goquery.Document) map[string]string {
	ratios := make(map[string]string)
	doc.Find("#top-ratios li").Each(func(index int, item *goquery.Selection) {
		key := strings.TrimSpace(item.Find("span.name").Text())
		if key == "" {
			return
		}

		value := strings.TrimSpace(item.Find("span.value").Text())
		value = strings.ReplaceAll(value, "\n", "")
		value = strings.ReplaceAll(value, " ", "")
		value = strings.ReplaceAll(value, "₹", "")
		value = strings.ReplaceAll(value, "Cr.", "")

		ratios[key] = value
		zap.L().Debug("Company ratio", zap.String("key", key), zap.String("value", value))
	})
	return ratios
}
