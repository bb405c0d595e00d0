package http_client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (compatible; stockrating/1.0)"

// NewClient returns a resty client shared by the outbound data sources.
func NewClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(500 * time.Millisecond)
	return client
}

// GetCompanyPage downloads an HTML page and returns its body.
func GetCompanyPage(ctx context.Context, client *resty.Client, url string) (io.Reader, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the URL: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to retrieve the content, status code: %d", resp.StatusCode())
	}

	return bytes.NewReader(resp.Body()), nil
}
