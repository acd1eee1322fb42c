// Package dexscreener is a thin client for the Dexscreener catalog endpoints
// the screener consumes: boosted/profiled token discovery, token-to-pair
// resolution, and pair detail lookups.
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
	"github.com/thiennguyenhieu/solana-bot/internal/market"
	"github.com/thiennguyenhieu/solana-bot/internal/metrics"
)

// ErrNotFound marks a token or pair the catalog has no data for. Callers
// skip the pair for the current cycle; already-tracked entries still decay.
var ErrNotFound = errors.New("dexscreener: not found")

// Client wraps the Dexscreener HTTP API with a shared rate limiter. Several
// endpoints are hit per candidate per cycle, so the limiter keeps a large
// candidate set from tripping upstream throttling.
type Client struct {
	http    *http.Client
	baseURL string
	chain   string
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient builds a catalog client from config.
func NewClient(cfg config.Dexscreener, log zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		chain:   strings.ToLower(cfg.Chain),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		log:     log,
	}
}

// Chain returns the configured chain id.
func (c *Client) Chain() string { return c.chain }

type tokenProfile struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
}

type pairsResponse struct {
	Pairs []market.Pair `json:"pairs"`
	Pair  *market.Pair  `json:"pair"`
}

// TokenProfiles returns the deduplicated token addresses from the boosted and
// profiled token endpoints, filtered to the configured chain. Individual
// endpoint failures are logged and skipped; the union of the rest is returned.
func (c *Client) TokenProfiles(ctx context.Context) []string {
	endpoints := []string{
		c.baseURL + "/token-boosts/latest/v1",
		c.baseURL + "/token-boosts/top/v1",
		c.baseURL + "/token-profiles/latest/v1",
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, url := range endpoints {
		var profiles []tokenProfile
		if err := c.getJSON(ctx, url, &profiles); err != nil {
			metrics.FetchErrorsTotal.WithLabelValues("dexscreener").Inc()
			c.log.Warn().Err(err).Str("url", url).Msg("token profile fetch failed")
			continue
		}
		for _, p := range profiles {
			if !strings.EqualFold(p.ChainID, c.chain) || p.TokenAddress == "" {
				continue
			}
			if _, ok := seen[p.TokenAddress]; ok {
				continue
			}
			seen[p.TokenAddress] = struct{}{}
			tokens = append(tokens, p.TokenAddress)
		}
	}
	return tokens
}

// PairAddress resolves a token to its primary pair address.
func (c *Client) PairAddress(ctx context.Context, token string) (string, error) {
	url := fmt.Sprintf("%s/token-pairs/v1/%s/%s", c.baseURL, c.chain, token)
	var pairs []market.Pair
	if err := c.getJSON(ctx, url, &pairs); err != nil {
		metrics.FetchErrorsTotal.WithLabelValues("dexscreener").Inc()
		return "", err
	}
	if len(pairs) == 0 || pairs[0].PairAddress == "" {
		return "", ErrNotFound
	}
	return pairs[0].PairAddress, nil
}

// PairDetails fetches the full pair record for a pair address.
func (c *Client) PairDetails(ctx context.Context, pairAddress string) (*market.Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, c.chain, pairAddress)
	var payload pairsResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		metrics.FetchErrorsTotal.WithLabelValues("dexscreener").Inc()
		return nil, err
	}
	if len(payload.Pairs) > 0 {
		return &payload.Pairs[0], nil
	}
	if payload.Pair != nil {
		return payload.Pair, nil
	}
	return nil, ErrNotFound
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "solana-bot/1.0")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
