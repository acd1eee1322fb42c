// Package market evaluates Dexscreener pair snapshots against tiered band
// checks and turns the result into a composite quality score and label.
package market

import "strconv"

// Pair mirrors the Dexscreener pair payload. Fields arrive loosely typed
// (prices as strings, optional nested blocks); Normalize is the only place
// they are coerced into clean numbers.
type Pair struct {
	ChainID     string      `json:"chainId"`
	PairAddress string      `json:"pairAddress"`
	BaseToken   Token       `json:"baseToken"`
	QuoteToken  Token       `json:"quoteToken"`
	PriceUsd    string      `json:"priceUsd"`
	PriceNative string      `json:"priceNative"`
	Txns        Txns        `json:"txns"`
	Volume      Volumes     `json:"volume"`
	Liquidity   Liquidity   `json:"liquidity"`
	PriceChange PriceChange `json:"priceChange"`
	FDV         float64     `json:"fdv"`
	MarketCap   float64     `json:"marketCap"`
	CreatedAt   int64       `json:"pairCreatedAt"`
	URL         string      `json:"url"`
}

// Token identifies one side of a pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Txns breaks transaction counts into lookback windows.
type Txns struct {
	M5  Txn `json:"m5"`
	H1  Txn `json:"h1"`
	H6  Txn `json:"h6"`
	H24 Txn `json:"h24"`
}

// Txn counts buys and sells within a window.
type Txn struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// Volumes holds USD trading volume per lookback window.
type Volumes struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// Liquidity holds pool depth figures.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// PriceChange holds percent price moves per lookback window.
type PriceChange struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// Snapshot is the flat, fully numeric view of a pair used by every component
// above the normalizer. Missing or malformed upstream fields are already
// defaulted to zero here; nothing downstream re-checks them.
type Snapshot struct {
	PairAddress string
	Chain       string
	BaseSymbol  string
	QuoteSymbol string
	BaseMint    string
	URL         string

	PriceUSD     float64
	LiquidityUSD float64
	FDV          float64

	Vol1h  float64
	Vol6h  float64
	Vol24h float64

	Buys1h  float64
	Sells1h float64
	Buys6h  float64
	Sells6h float64

	Chg5m  float64
	Chg1h  float64
	Chg24h float64

	CreatedAtMs int64
}

// Normalize coerces a wire pair into a Snapshot. It never fails: unparseable
// numbers become zero and FDV falls back to market cap when absent.
func Normalize(p Pair) Snapshot {
	fdv := p.FDV
	if fdv == 0 {
		fdv = p.MarketCap
	}
	return Snapshot{
		PairAddress:  p.PairAddress,
		Chain:        p.ChainID,
		BaseSymbol:   p.BaseToken.Symbol,
		QuoteSymbol:  p.QuoteToken.Symbol,
		BaseMint:     p.BaseToken.Address,
		URL:          p.URL,
		PriceUSD:     parsePrice(p),
		LiquidityUSD: p.Liquidity.USD,
		FDV:          fdv,
		Vol1h:        p.Volume.H1,
		Vol6h:        p.Volume.H6,
		Vol24h:       p.Volume.H24,
		Buys1h:       float64(p.Txns.H1.Buys),
		Sells1h:      float64(p.Txns.H1.Sells),
		Buys6h:       float64(p.Txns.H6.Buys),
		Sells6h:      float64(p.Txns.H6.Sells),
		Chg5m:        p.PriceChange.M5,
		Chg1h:        p.PriceChange.H1,
		Chg24h:       p.PriceChange.H24,
		CreatedAtMs:  p.CreatedAt,
	}
}

// Txns1h returns the combined 1h transaction count.
func (s Snapshot) Txns1h() float64 { return s.Buys1h + s.Sells1h }

func parsePrice(p Pair) float64 {
	if px, err := strconv.ParseFloat(p.PriceUsd, 64); err == nil && px > 0 {
		return px
	}
	if px, err := strconv.ParseFloat(p.PriceNative, 64); err == nil && px > 0 {
		return px
	}
	return 0
}

// buySellRatio divides buys by sells, treating a zero denominator as 1.0 so a
// buys-only window reads as heavily buy-side rather than erroring.
func buySellRatio(buys, sells float64) float64 {
	if sells > 0 {
		return buys / sells
	}
	return buys
}

// safeDiv divides a by b, returning the default when b is zero.
func safeDiv(a, b, def float64) float64 {
	if b == 0 {
		return def
	}
	return a / b
}
