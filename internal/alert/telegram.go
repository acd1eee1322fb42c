package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Telegram caps messages at 4096 chars; leave headroom for HTML entities.
const maxMessageLen = 4000

// Notifier delivers alert text to a Telegram chat. A notifier without
// credentials is disabled: Send becomes a no-op so the screener runs fine
// without delivery configured.
type Notifier struct {
	http    *http.Client
	apiBase string
	token   string
	chatID  string
	log     zerolog.Logger
}

// NewNotifier builds a notifier; token and chatID may be empty to disable it.
func NewNotifier(apiBase, token, chatID string, log zerolog.Logger) *Notifier {
	return &Notifier{
		http:    &http.Client{Timeout: 10 * time.Second},
		apiBase: strings.TrimSuffix(apiBase, "/"),
		token:   token,
		chatID:  chatID,
		log:     log,
	}
}

// Enabled reports whether credentials are configured.
func (n *Notifier) Enabled() bool {
	return n.token != "" && n.chatID != ""
}

// Send posts the text to the chat, splitting on block boundaries when it
// exceeds the Telegram message limit. Delivery failures are logged and
// returned but are never fatal to a cycle.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if !n.Enabled() || text == "" {
		return nil
	}
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := n.sendOne(ctx, chunk); err != nil {
			n.log.Warn().Err(err).Msg("telegram send failed")
			return err
		}
	}
	return nil
}

func (n *Notifier) sendOne(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	form := url.Values{
		"chat_id":                  {n.chatID},
		"text":                     {text},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, apiErr.Description)
	}
	return nil
}

// splitMessage breaks text into chunks of at most limit runes, preferring
// blank-line boundaries so alert blocks stay intact. A single block longer
// than the limit is hard-split mid-block rather than emitted oversized.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}
	for _, block := range strings.Split(text, "\n\n") {
		runes := []rune(block)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) == 0 {
			continue
		}
		if len(current) > 0 && len(current)+len(runes)+2 > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, '\n', '\n')
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
