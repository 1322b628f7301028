// Package notify delivers the end-of-cycle digest.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/pkg/config"
	"github.com/wonny/fundwatch/pkg/httputil"
	"github.com/wonny/fundwatch/pkg/logger"
)

// Telegram sends digests through the Bot API. An empty bot token disables
// delivery without failing the pipeline.
type Telegram struct {
	httpClient *httputil.Client
	baseURL    string
	botToken   string
	chatID     string
	logger     *logger.Logger
}

// NewTelegram creates the notifier.
func NewTelegram(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Telegram {
	return &Telegram{
		httpClient: httpClient,
		baseURL:    cfg.Telegram.BaseURL,
		botToken:   cfg.Telegram.BotToken,
		chatID:     cfg.Telegram.ChatID,
		logger:     log.WithField("module", "notify"),
	}
}

// SendDigest formats and delivers the digest. The pipeline only calls this
// when at least one alert fired.
func (t *Telegram) SendDigest(ctx context.Context, digest *contracts.Digest) error {
	if t.botToken == "" {
		t.logger.Debug("Telegram disabled, digest not sent")
		return nil
	}

	payload := map[string]interface{}{
		"chat_id": t.chatID,
		"text":    FormatDigest(digest),
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	resp, err := t.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	t.logger.WithField("date", digest.Date.Format("2006-01-02")).Info("Digest sent")
	return nil
}

// FormatDigest renders the digest as plain text, strongest highlights first.
func FormatDigest(digest *contracts.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fund digest %s\n", digest.Date.Format("2006-01-02"))

	for _, level := range []contracts.HighlightLevel{
		contracts.HighlightStrong,
		contracts.HighlightMedium,
		contracts.HighlightNone,
	} {
		entries := digest.EntriesByHighlight(level)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(level.String()))
		for _, e := range entries {
			writeEntry(&b, e)
		}
	}

	return b.String()
}

func writeEntry(b *strings.Builder, e contracts.DigestEntry) {
	fmt.Fprintf(b, "%s: %.4f", e.Fund.Name, e.Latest)
	if e.DayChangeValid {
		fmt.Fprintf(b, " (%+.2f%%)", e.DayChangePct)
	}
	fmt.Fprintf(b, ", %s\n", e.Trend)

	mas := []struct {
		label string
		ma    contracts.MAValue
	}{
		{"MA30", e.MAs.MA30},
		{"MA50", e.MAs.MA50},
		{"MA200", e.MAs.MA200},
	}
	var parts []string
	for _, m := range mas {
		if m.ma.Valid {
			parts = append(parts, fmt.Sprintf("%s %.4f", m.label, m.ma.Value))
		} else {
			parts = append(parts, fmt.Sprintf("%s n/a", m.label))
		}
	}
	fmt.Fprintf(b, "  %s\n", strings.Join(parts, " · "))

	for _, alert := range e.Alerts {
		fmt.Fprintf(b, "  ! %s\n", alert)
	}
}
