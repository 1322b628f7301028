package amfi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/pkg/config"
	"github.com/wonny/fundwatch/pkg/httputil"
	"github.com/wonny/fundwatch/pkg/logger"
)

// noDataMarker is AMFI's explicit "nothing published for this date" body.
const noDataMarker = "no data found"

// Client fetches the AMFI daily NAV report for a given date.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates an AMFI report client. Same-date retry is disabled:
// the resolver recovers from a failed date by walking to an earlier one,
// never by resubmitting.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient.DisableRetry(),
		baseURL:    cfg.AMFI.BaseURL,
		limiter:    rate.NewLimiter(rate.Every(cfg.AMFI.RequestInterval), 1),
		logger:     log.WithField("module", "amfi"),
	}
}

// Fetch downloads and parses the report for one date. Non-200 responses,
// empty bodies, and the explicit no-data marker all wrap
// contracts.ErrProviderUnavailable so the caller advances to an earlier date.
func (c *Client) Fetch(ctx context.Context, date time.Time) (contracts.NAVReport, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	// AMFI keys the historical report by frmdt/todt in DD-Mon-YYYY form.
	dateStr := date.Format("02-Jan-2006")
	fullURL := fmt.Sprintf("%s?frmdt=%s&todt=%s", c.baseURL, dateStr, dateStr)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", contracts.ErrProviderUnavailable, dateStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", contracts.ErrProviderUnavailable, resp.StatusCode, dateStr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body for %s: %v", contracts.ErrProviderUnavailable, dateStr, err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, fmt.Errorf("%w: empty body for %s", contracts.ErrProviderUnavailable, dateStr)
	}
	if strings.Contains(strings.ToLower(text), noDataMarker) {
		return nil, fmt.Errorf("%w: no data marker for %s", contracts.ErrProviderUnavailable, dateStr)
	}

	report := parseReport(text)
	if report.Size() == 0 {
		return nil, fmt.Errorf("%w: no parseable records for %s", contracts.ErrProviderUnavailable, dateStr)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":    dateStr,
		"schemes": report.Size(),
	}).Debug("Fetched NAV report")

	return report, nil
}
