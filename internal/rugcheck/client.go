// Package rugcheck fetches third-party token risk reports and reduces them to
// a compact status, score, and reason list.
package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
	"github.com/thiennguyenhieu/solana-bot/internal/metrics"
)

// Report mirrors the fields of the Rugcheck token report the evaluator reads.
type Report struct {
	Mint                  string   `json:"mint"`
	Rugged                bool     `json:"rugged"`
	TopHolders            []Holder `json:"topHolders"`
	TotalHolders          int      `json:"totalHolders"`
	Markets               []Market `json:"markets"`
	CreatorBalance        float64  `json:"creatorBalance"`
	TransferFee           Fee      `json:"transferFee"`
	MintAuthority         string   `json:"mintAuthority"`
	FreezeAuthority       string   `json:"freezeAuthority"`
	Risks                 []Risk   `json:"risks"`
	GraphInsidersDetected int      `json:"graphInsidersDetected"`
}

// Holder is one entry of the top-holder distribution.
type Holder struct {
	Pct float64 `json:"pct"`
}

// Market carries the LP lock state for one market of the token.
type Market struct {
	LP LPInfo `json:"lp"`
}

// LPInfo reports what share of liquidity provider tokens is locked.
type LPInfo struct {
	LockedPct float64 `json:"lpLockedPct"`
}

// Fee is the token transfer fee, if any.
type Fee struct {
	Pct float64 `json:"pct"`
}

// Risk is one upstream-flagged risk item.
type Risk struct {
	Description string `json:"description"`
}

// Client fetches reports behind a circuit breaker. The upstream is flaky;
// an open breaker, timeout, or non-200 all read as "no report", never as a
// cycle-stopping error.
type Client struct {
	http     *http.Client
	baseURL  string
	linkBase string
	breaker  *gobreaker.CircuitBreaker
	log      zerolog.Logger
}

// NewClient builds a report client from config.
func NewClient(cfg config.Rugcheck, log zerolog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: 5 * time.Second},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		linkBase: strings.TrimSuffix(cfg.LinkBase, "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "rugcheck",
			Timeout: 2 * time.Minute,
		}),
		log: log,
	}
}

// Assess reduces a fetched report using the configured link base.
func (c *Client) Assess(report *Report) Assessment {
	return Evaluate(report, c.linkBase)
}

// Fetch returns the report for a mint, or nil when no data is available.
// The mint is validated as a base58 32-byte key first so garbage addresses
// never consume a request.
func (c *Client) Fetch(ctx context.Context, mint string) *Report {
	if !validMint(mint) {
		return nil
	}
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, mint)
	})
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues("rugcheck").Inc()
		c.log.Warn().Err(err).Str("mint", mint).Msg("rugcheck fetch failed")
		return nil
	}
	return result.(*Report)
}

func (c *Client) fetch(ctx context.Context, mint string) (*Report, error) {
	url := fmt.Sprintf("%s/%s/report", c.baseURL, mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if report.Mint == "" {
		report.Mint = mint
	}
	return &report, nil
}

// validMint checks that the address decodes to a 32-byte Solana public key.
func validMint(mint string) bool {
	raw, err := base58.Decode(mint)
	return err == nil && len(raw) == 32
}
