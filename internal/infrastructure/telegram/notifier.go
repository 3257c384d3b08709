package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	maxErrorLines  = 5
)

// Notifier sends run summaries to a Telegram chat via bot API.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		apiBase:  defaultAPIBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishSummary posts a Markdown digest of the run to Telegram.
func (n *Notifier) PublishSummary(ctx context.Context, summary domain.RunSummary) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(n.apiBase, "/"), n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", FormatSummary(summary))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// FormatSummary renders the operator-facing text of a run.
func FormatSummary(s domain.RunSummary) string {
	var b strings.Builder
	if !s.Success {
		fmt.Fprintf(&b, "*Daily insights run failed*\n%s\n", s.Message)
		return b.String()
	}

	fmt.Fprintf(&b, "*Daily insights run*\n")
	fmt.Fprintf(&b, "Sources: %d, tenants: %d, keywords: %d\n", s.SourcesProcessed, s.TenantsCount, s.KeywordsCount)
	fmt.Fprintf(&b, "Scraped: %d, saved: %d, duplicates: %d, unassigned: %d\n", s.Scraped, s.Saved, s.Duplicates, s.Unassigned)

	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "Errors: %d\n", len(s.Errors))
		for i, msg := range s.Errors {
			if i == maxErrorLines {
				fmt.Fprintf(&b, "- ... %d more\n", len(s.Errors)-maxErrorLines)
				break
			}
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	return b.String()
}
