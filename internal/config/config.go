// Package config exposes strongly typed application configuration structs loaded from YAML.
//
// Every numeric threshold used by the evaluator, scorer, and signal engine lives
// here rather than in code: the rule tables have drifted across deployments, so
// they are treated as tunables with the current production values as defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Dexscreener configures the HTTP catalog client for pair discovery and detail lookups.
type Dexscreener struct {
	BaseURL        string  `yaml:"base_url"`
	Chain          string  `yaml:"chain"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	Burst          int     `yaml:"burst"`
}

// Rugcheck configures the third-party token risk report client.
type Rugcheck struct {
	BaseURL  string `yaml:"base_url"`
	LinkBase string `yaml:"link_base"`
}

// Telegram holds delivery endpoint settings; credentials come from the environment.
type Telegram struct {
	APIBase string `yaml:"api_base"`
}

// Screener controls the polling cadence of the scan loop.
type Screener struct {
	PollIntervalMins int `yaml:"poll_interval_mins"`
}

// Tier holds the band thresholds for one age category of pairs.
type Tier struct {
	LiqMinUSD   float64 `yaml:"liq_min_usd"`
	LiqMaxUSD   float64 `yaml:"liq_max_usd"` // 0 = fall back to the global liquidity cap
	FDVMaxUSD   float64 `yaml:"fdv_max_usd"`
	LiqFDVMin   float64 `yaml:"liq_fdv_min"`
	LiqFDVMax   float64 `yaml:"liq_fdv_max"` // 0 = unbounded
	TurnoverMin float64 `yaml:"turnover_min"`
	Vol1hMin    float64 `yaml:"vol_1h_min"`
	Vol6hMin    float64 `yaml:"vol_6h_min"`
	Vol24hMin   float64 `yaml:"vol_24h_min"`
	RatioMin    float64 `yaml:"ratio_min"`
	RatioMax    float64 `yaml:"ratio_max"`
	Chg5mMax    float64 `yaml:"chg_5m_max"`  // early momentum guard
	Chg1hMax    float64 `yaml:"chg_1h_max"`  // early momentum guard
	Chg24hMin   float64 `yaml:"chg_24h_min"` // old momentum band
	Chg24hMax   float64 `yaml:"chg_24h_max"`
	SweetMin    float64 `yaml:"sweet_min"` // liq/FDV sweet spot for the score bonus
	SweetMax    float64 `yaml:"sweet_max"`
}

// Evaluator groups the age split and the per-category band tables.
type Evaluator struct {
	EarlyHours float64 `yaml:"early_hours"`
	LiqCapUSD  float64 `yaml:"liq_cap_usd"`
	Early      Tier    `yaml:"early"`
	Old        Tier    `yaml:"old"`
}

// Scoring holds the component weights and the upside target valuations.
type Scoring struct {
	UpsideWeight       float64 `yaml:"upside_weight"`
	StructureWeight    float64 `yaml:"structure_weight"`
	MarketWeight       float64 `yaml:"market_weight"`
	TargetPeakEarlyUSD float64 `yaml:"target_peak_early_usd"`
	TargetPeakOldUSD   float64 `yaml:"target_peak_old_usd"`
}

// Trade holds the entry/exit signal thresholds and vote/cooldown settings.
type Trade struct {
	MinVol1hUSD    float64 `yaml:"min_vol_1h_usd"`
	MinTxns1h      float64 `yaml:"min_txns_1h"`
	EntryRatio     float64 `yaml:"entry_ratio"`
	ExitRatio      float64 `yaml:"exit_ratio"`
	EntryChg1hMin  float64 `yaml:"entry_chg_1h_min"`
	EntryChg1hMax  float64 `yaml:"entry_chg_1h_max"`
	Spike5mPct     float64 `yaml:"spike_5m_pct"`
	Blowoff1hPct   float64 `yaml:"blowoff_1h_pct"`
	Blowoff24hPct  float64 `yaml:"blowoff_24h_pct"`
	Dump1hPct      float64 `yaml:"dump_1h_pct"`
	Dump5mPct      float64 `yaml:"dump_5m_pct"`
	RatioDropPct   float64 `yaml:"ratio_drop_pct"`
	PriceDropPct   float64 `yaml:"price_drop_pct"`
	CooldownBars   int     `yaml:"cooldown_bars"`
	EntryVotesNeed int     `yaml:"entry_votes_need"`
	HistoryMaxLen  int     `yaml:"history_max_len"`
	RatioCap       float64 `yaml:"ratio_cap"`
}

// Tracking holds the ledger decay cap and the durable store locations.
type Tracking struct {
	CountCap   int    `yaml:"count_cap"`
	LedgerPath string `yaml:"ledger_path"`
	MetaPath   string `yaml:"meta_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App         App         `yaml:"app"`
	Dexscreener Dexscreener `yaml:"dexscreener"`
	Rugcheck    Rugcheck    `yaml:"rugcheck"`
	Telegram    Telegram    `yaml:"telegram"`
	Screener    Screener    `yaml:"screener"`
	Evaluator   Evaluator   `yaml:"evaluator"`
	Scoring     Scoring     `yaml:"scoring"`
	Trade       Trade       `yaml:"trade"`
	Tracking    Tracking    `yaml:"tracking"`
}

// Load reads a YAML file from disk, hydrates a Config struct, and applies defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// Default returns a Config populated entirely from defaults, for tests and cold starts.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// The default helpers treat the zero value as unset. One consequence: a
// threshold explicitly configured to 0 (e.g. entry_chg_1h_min or dump_1h_pct)
// snaps back to its default. Configure a near-zero value such as 0.01 when a
// band edge at exactly zero is wanted.
func defaultFloat(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

func defaultInt(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}

func defaultString(v *string, d string) {
	if *v == "" {
		*v = d
	}
}

func (c *Config) applyDefaults() {
	defaultString(&c.App.Name, "solana-bot")
	defaultString(&c.App.Env, "prod")
	defaultString(&c.App.MetricsAddr, ":9109")
	defaultString(&c.App.LogLevel, "info")

	defaultString(&c.Dexscreener.BaseURL, "https://api.dexscreener.com")
	defaultString(&c.Dexscreener.Chain, "solana")
	defaultFloat(&c.Dexscreener.RequestsPerSec, 4)
	defaultInt(&c.Dexscreener.Burst, 4)

	defaultString(&c.Rugcheck.BaseURL, "https://api.rugcheck.xyz/v1/tokens")
	defaultString(&c.Rugcheck.LinkBase, "https://rugcheck.xyz/tokens")

	defaultString(&c.Telegram.APIBase, "https://api.telegram.org")

	defaultInt(&c.Screener.PollIntervalMins, 10)

	defaultFloat(&c.Evaluator.EarlyHours, 72)
	defaultFloat(&c.Evaluator.LiqCapUSD, 5_000_000)

	early := &c.Evaluator.Early
	defaultFloat(&early.LiqMinUSD, 30_000)
	defaultFloat(&early.LiqMaxUSD, 300_000)
	defaultFloat(&early.FDVMaxUSD, 1_500_000)
	defaultFloat(&early.LiqFDVMin, 0.15)
	defaultFloat(&early.TurnoverMin, 2.0)
	defaultFloat(&early.Vol1hMin, 100_000)
	defaultFloat(&early.Vol6hMin, 500_000)
	defaultFloat(&early.Vol24hMin, 1_000_000)
	defaultFloat(&early.RatioMin, 0.9)
	defaultFloat(&early.RatioMax, 1.2)
	defaultFloat(&early.Chg5mMax, 25)
	defaultFloat(&early.Chg1hMax, 60)
	defaultFloat(&early.Chg24hMax, 400)
	defaultFloat(&early.SweetMin, 0.12)
	defaultFloat(&early.SweetMax, 0.35)

	old := &c.Evaluator.Old
	defaultFloat(&old.LiqMinUSD, 100_000)
	defaultFloat(&old.FDVMaxUSD, 10_000_000)
	defaultFloat(&old.LiqFDVMin, 0.05)
	defaultFloat(&old.LiqFDVMax, 0.50)
	defaultFloat(&old.TurnoverMin, 0.5)
	defaultFloat(&old.Vol1hMin, 50_000)
	defaultFloat(&old.Vol6hMin, 300_000)
	defaultFloat(&old.Vol24hMin, 500_000)
	defaultFloat(&old.RatioMin, 0.8)
	defaultFloat(&old.RatioMax, 1.25)
	defaultFloat(&old.Chg24hMin, -30)
	defaultFloat(&old.Chg24hMax, 150)
	defaultFloat(&old.SweetMin, 0.08)
	defaultFloat(&old.SweetMax, 0.30)

	defaultFloat(&c.Scoring.UpsideWeight, 35)
	defaultFloat(&c.Scoring.StructureWeight, 20)
	defaultFloat(&c.Scoring.MarketWeight, 45)
	defaultFloat(&c.Scoring.TargetPeakEarlyUSD, 200_000_000)
	defaultFloat(&c.Scoring.TargetPeakOldUSD, 50_000_000)

	trade := &c.Trade
	defaultFloat(&trade.MinVol1hUSD, 50_000)
	defaultFloat(&trade.MinTxns1h, 80)
	defaultFloat(&trade.EntryRatio, 2.0)
	defaultFloat(&trade.ExitRatio, 0.9)
	defaultFloat(&trade.EntryChg1hMin, -5)
	defaultFloat(&trade.EntryChg1hMax, 20)
	defaultFloat(&trade.Spike5mPct, 30)
	defaultFloat(&trade.Blowoff1hPct, 120)
	defaultFloat(&trade.Blowoff24hPct, 500)
	defaultFloat(&trade.Dump1hPct, -10)
	defaultFloat(&trade.Dump5mPct, -8)
	defaultFloat(&trade.RatioDropPct, 30)
	defaultFloat(&trade.PriceDropPct, 10)
	defaultInt(&trade.CooldownBars, 3)
	defaultInt(&trade.EntryVotesNeed, 2)
	defaultInt(&trade.HistoryMaxLen, 72)
	defaultFloat(&trade.RatioCap, 5.0)

	defaultInt(&c.Tracking.CountCap, 5)
	defaultString(&c.Tracking.LedgerPath, "data/tracked_pairs.json")
	defaultString(&c.Tracking.MetaPath, "data/trade_meta_store.json")
}
