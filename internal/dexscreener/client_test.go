package dexscreener

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Dexscreener{
		BaseURL:        baseURL,
		Chain:          "solana",
		RequestsPerSec: 1000,
		Burst:          100,
	}, zerolog.Nop())
}

func TestTokenProfilesUnionAndDedupe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token-boosts/latest/v1":
			w.Write([]byte(`[{"chainId":"solana","tokenAddress":"tokA"},{"chainId":"ethereum","tokenAddress":"tokEth"}]`))
		case "/token-boosts/top/v1":
			w.Write([]byte(`[{"chainId":"solana","tokenAddress":"tokA"},{"chainId":"solana","tokenAddress":"tokB"}]`))
		case "/token-profiles/latest/v1":
			// This endpoint failing must not poison the others.
			http.Error(w, "upstream busted", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tokens := newTestClient(srv.URL).TokenProfiles(context.Background())
	want := []string{"tokA", "tokB"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("TokenProfiles = %v, want %v", tokens, want)
	}
}

func TestPairAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token-pairs/v1/solana/tokA" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"pairAddress":"pair1"},{"pairAddress":"pair2"}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	addr, err := c.PairAddress(context.Background(), "tokA")
	if err != nil {
		t.Fatalf("PairAddress: %v", err)
	}
	if addr != "pair1" {
		t.Errorf("addr = %q, want pair1", addr)
	}

	if _, err := c.PairAddress(context.Background(), "unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPairAddressEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).PairAddress(context.Background(), "tokA"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPairDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/pairs/solana/pair1" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"pairs":[{"pairAddress":"pair1","priceUsd":"0.0123","liquidity":{"usd":150000}}]}`))
	}))
	defer srv.Close()

	pair, err := newTestClient(srv.URL).PairDetails(context.Background(), "pair1")
	if err != nil {
		t.Fatalf("PairDetails: %v", err)
	}
	if pair.PairAddress != "pair1" || pair.PriceUsd != "0.0123" {
		t.Errorf("pair = %+v", pair)
	}
	if pair.Liquidity.USD != 150000 {
		t.Errorf("liquidity = %v, want 150000", pair.Liquidity.USD)
	}
}

func TestPairDetailsSingularPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pair":{"pairAddress":"pair9"}}`))
	}))
	defer srv.Close()

	pair, err := newTestClient(srv.URL).PairDetails(context.Background(), "pair9")
	if err != nil {
		t.Fatalf("PairDetails: %v", err)
	}
	if pair.PairAddress != "pair9" {
		t.Errorf("pair = %+v", pair)
	}
}
