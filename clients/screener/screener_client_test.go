package screener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockrating/types"
)

const companyPage = `<html><body>
<ul id="top-ratios">
  <li class="flex flex-space-between" data-source="default">
    <span class="name">Market Cap</span>
    <span class="nowrap value">₹ <span class="number">1,20,000</span> Cr.</span>
  </li>
  <li class="flex flex-space-between" data-source="default">
    <span class="name">Current Price</span>
    <span class="nowrap value">₹ <span class="number">1,500</span></span>
  </li>
  <li class="flex flex-space-between" data-source="default">
    <span class="name">Stock P/E</span>
    <span class="nowrap value"><span class="number">18.4</span></span>
  </li>
  <li class="flex flex-space-between" data-source="default">
    <span class="name">Book Value</span>
    <span class="nowrap value">₹ <span class="number">600</span></span>
  </li>
  <li class="flex flex-space-between" data-source="default">
    <span class="name">Dividend Yield</span>
    <span class="nowrap value"><span class="number">1.50</span> %</span>
  </li>
  <li class="flex flex-space-between" data-source="quick-ratio">
    <span class="name">Debt to equity</span>
    <span class="nowrap value"><span class="number">0.42</span></span>
  </li>
</ul>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/company/TCS/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(companyPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTopRatios(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	ratios, err := c.TopRatios(context.Background(), "tcs")
	require.NoError(t, err)
	assert.Equal(t, "1,20,000", ratios["Market Cap"])
	assert.Equal(t, "18.4", ratios["Stock P/E"])
	assert.Equal(t, "1.50%", ratios["Dividend Yield"])
}

func TestSupplement_FillsOnlyMissingFields(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	snap := &types.MetricsSnapshot{PriceToEarnings: types.Float(22)}

	require.NoError(t, c.Supplement(context.Background(), "TCS", snap))
	assert.Equal(t, 22.0, *snap.PriceToEarnings)
	assert.InDelta(t, 0.015, *snap.DividendYield, 1e-12)
	assert.InDelta(t, 2.5, *snap.PriceToBook, 1e-12)
	assert.Equal(t, 1500.0, *snap.CurrentPrice)
	require.NotNil(t, snap.DebtToEquity)
	assert.InDelta(t, 0.42, *snap.DebtToEquity, 1e-12)
}

func TestSupplement_KeepsExistingDebtToEquity(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	snap := &types.MetricsSnapshot{DebtToEquity: types.Float(0)}

	require.NoError(t, c.Supplement(context.Background(), "TCS", snap))
	assert.Equal(t, 0.0, *snap.DebtToEquity)
}

func TestSupplement_UnknownCompany(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	err := c.Supplement(context.Background(), "NOPE", &types.MetricsSnapshot{})
	assert.Error(t, err)
}
