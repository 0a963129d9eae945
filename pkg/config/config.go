package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Telegram struct {
		BotToken   string        `yaml:"bot_token"`
		ChatID     string        `yaml:"chat_id"`
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`
	Scan struct {
		AdapterTimeout time.Duration `yaml:"adapter_timeout"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		Schedule       string        `yaml:"schedule"`
		PushEnabled    bool          `yaml:"push_enabled"`
	} `yaml:"scan"`
	Sources struct {
		Binance struct {
			Enabled bool   `yaml:"enabled"`
			URL     string `yaml:"url"`
		} `yaml:"binance"`
		CoinGecko struct {
			Enabled bool   `yaml:"enabled"`
			URL     string `yaml:"url"`
			PerPage int    `yaml:"per_page"`
		} `yaml:"coingecko"`
		Dexscreener struct {
			Enabled bool     `yaml:"enabled"`
			URL     string   `yaml:"url"`
			Tokens  []string `yaml:"tokens"`
		} `yaml:"dexscreener"`
		Stream struct {
			Enabled        bool          `yaml:"enabled"`
			URL            string        `yaml:"url"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
			MaxSymbols     int           `yaml:"max_symbols"`
		} `yaml:"stream"`
	} `yaml:"sources"`
	Filter struct {
		TierOneSupplyCap      float64 `yaml:"tier_one_supply_cap"`
		TierOneLow            float64 `yaml:"tier_one_low"`
		TierOneHigh           float64 `yaml:"tier_one_high"`
		TierTwoSupplyCap      float64 `yaml:"tier_two_supply_cap"`
		TierTwoLow            float64 `yaml:"tier_two_low"`
		TierTwoHigh           float64 `yaml:"tier_two_high"`
		VolatilityThreshold   float64 `yaml:"volatility_threshold"`
		RecentWindowDays      int     `yaml:"recent_window_days"`
		FreshWindowDays       int     `yaml:"fresh_window_days"`
		UnknownSupplyPolicy   string  `yaml:"unknown_supply_policy"`
		UnknownSupplyPriceCap float64 `yaml:"unknown_supply_price_cap"`
	} `yaml:"filter"`
	Cache struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Telegram.WebhookURL = v
	}
	// Render-style deploys expose only the external hostname
	if v := os.Getenv("RENDER_EXTERNAL_HOSTNAME"); v != "" && c.Telegram.WebhookURL == "" {
		c.Telegram.WebhookURL = "https://" + v + "/webhook"
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("DEX_TOKENS"); v != "" {
		c.Sources.Dexscreener.Tokens = strings.Split(v, ",")
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// applyDefaults fills thresholds that have documented defaults. The supply/price
// bands and the unknown-supply policy have no safe default and stay required.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
	if c.Scan.AdapterTimeout == 0 {
		c.Scan.AdapterTimeout = 10 * time.Second
	}
	if c.Filter.VolatilityThreshold == 0 {
		c.Filter.VolatilityThreshold = 5
	}
	if c.Filter.RecentWindowDays == 0 {
		c.Filter.RecentWindowDays = 60
	}
	if c.Filter.FreshWindowDays == 0 {
		c.Filter.FreshWindowDays = 7
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
}

// Validate checks if the configuration is valid. A broken filter section is
// fatal: the pipeline must not guess which heuristic policy to apply.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for redis backend")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return c.validateFilter()
}

func (c *Config) validateFilter() error {
	f := c.Filter
	if f.TierOneSupplyCap <= 0 || f.TierTwoSupplyCap <= 0 {
		return fmt.Errorf("filter: supply caps must be positive")
	}
	if f.TierOneLow <= 0 || f.TierOneHigh <= 0 || f.TierOneLow >= f.TierOneHigh {
		return fmt.Errorf("filter: tier one price band must satisfy 0 < low < high")
	}
	if f.TierTwoLow <= 0 || f.TierTwoHigh <= 0 || f.TierTwoLow >= f.TierTwoHigh {
		return fmt.Errorf("filter: tier two price band must satisfy 0 < low < high")
	}
	if f.VolatilityThreshold <= 0 {
		return fmt.Errorf("filter: volatility_threshold must be positive")
	}
	if f.RecentWindowDays <= 0 || f.FreshWindowDays <= 0 {
		return fmt.Errorf("filter: recency windows must be positive")
	}
	switch f.UnknownSupplyPolicy {
	case "reject":
	case "accept_under_cap":
		if f.UnknownSupplyPriceCap <= 0 {
			return fmt.Errorf("filter: unknown_supply_price_cap is required for accept_under_cap policy")
		}
	default:
		return fmt.Errorf("filter: unknown_supply_policy must be 'reject' or 'accept_under_cap', got '%s'", f.UnknownSupplyPolicy)
	}
	return nil
}
