package di

import (
	"context"
	"fmt"
	"time"

	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/internal/handler/api"
	"TokenRadar/internal/repository"
	"TokenRadar/internal/scheduler"
	"TokenRadar/internal/service/sources"
	"TokenRadar/internal/service/telegram"
	"TokenRadar/internal/usecase"
	"TokenRadar/pkg/cache"
	"TokenRadar/pkg/clickhouse"
	"TokenRadar/pkg/config"
	xhttp "TokenRadar/pkg/http"
	"TokenRadar/pkg/logger"
	"TokenRadar/pkg/metrics"
	"TokenRadar/pkg/server"

	"github.com/shopspring/decimal"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics builds the Prometheus recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideHTTPClient builds the shared outbound HTTP client used by the REST
// source adapters.
func ProvideHTTPClient() *xhttp.Client {
	return xhttp.NewClient()
}

// ProvideCache selects the cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cfg.Cache.Redis.Addr,
			cache.WithRedisCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideEngine translates the validated filter config into engine rules.
func ProvideEngine(cfg *config.Config) *usecase.Engine {
	f := cfg.Filter
	rules := usecase.FilterRules{
		TierOneSupplyCap:      decimal.NewFromFloat(f.TierOneSupplyCap),
		TierOneLow:            decimal.NewFromFloat(f.TierOneLow),
		TierOneHigh:           decimal.NewFromFloat(f.TierOneHigh),
		TierTwoSupplyCap:      decimal.NewFromFloat(f.TierTwoSupplyCap),
		TierTwoLow:            decimal.NewFromFloat(f.TierTwoLow),
		TierTwoHigh:           decimal.NewFromFloat(f.TierTwoHigh),
		VolatilityThreshold:   decimal.NewFromFloat(f.VolatilityThreshold),
		RecentWindow:          time.Duration(f.RecentWindowDays) * 24 * time.Hour,
		FreshWindow:           time.Duration(f.FreshWindowDays) * 24 * time.Hour,
		UnknownSupplyPolicy:   usecase.UnknownSupplyPolicy(f.UnknownSupplyPolicy),
		UnknownSupplyPriceCap: decimal.NewFromFloat(f.UnknownSupplyPriceCap),
	}
	return usecase.NewEngine(rules, nil)
}

// ProvideAggregator builds the de-duplicating aggregator.
func ProvideAggregator(engine *usecase.Engine) *usecase.Aggregator {
	return usecase.NewAggregator(engine)
}

// ProvideStream builds the live ticker adapter, or nil when disabled.
func ProvideStream(cfg *config.Config, log *logger.Logger) *sources.Stream {
	s := cfg.Sources.Stream
	if !s.Enabled {
		return nil
	}
	return sources.NewStream(s.URL, s.ReconnectDelay, s.PingInterval, s.MaxSymbols, log)
}

// ProvideAdapters assembles the enabled source adapters. Slice order is
// de-duplication priority: earlier adapters win symbol conflicts.
func ProvideAdapters(cfg *config.Config, client *xhttp.Client, stream *sources.Stream) []drepo.SourceAdapter {
	var adapters []drepo.SourceAdapter
	if cfg.Sources.Binance.Enabled {
		adapters = append(adapters, sources.NewBinance(cfg.Sources.Binance.URL, client))
	}
	if cfg.Sources.CoinGecko.Enabled {
		adapters = append(adapters, sources.NewCoinGecko(cfg.Sources.CoinGecko.URL, cfg.Sources.CoinGecko.PerPage, client))
	}
	if cfg.Sources.Dexscreener.Enabled {
		adapters = append(adapters, sources.NewDexscreener(cfg.Sources.Dexscreener.URL, cfg.Sources.Dexscreener.Tokens, client))
	}
	if stream != nil {
		adapters = append(adapters, stream)
	}
	return adapters
}

// ProvideRunner builds the scan pipeline runner.
func ProvideRunner(
	cfg *config.Config,
	adapters []drepo.SourceAdapter,
	agg *usecase.Aggregator,
	c cache.Service,
	m drepo.Metrics,
	log *logger.Logger,
) *usecase.ScanRunner {
	return usecase.NewScanRunner(adapters, agg, c, cfg.Scan.CacheTTL, m, log, cfg.Scan.AdapterTimeout)
}

// ProvideTelegram builds the Bot API client with its own timeout budget.
func ProvideTelegram(cfg *config.Config) (*telegram.Client, error) {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Telegram.Timeout))
	return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client)
}

// ProvideHistory builds the alert history sink. With ClickHouse disabled the
// sink is a no-op and nothing is persisted.
func ProvideHistory(cfg *config.Config) (drepo.AlertHistory, error) {
	if !cfg.ClickHouse.Enabled {
		return repository.NoopHistory{}, nil
	}

	client, err := clickhouse.NewClient(
		clickhouse.WithHost(cfg.ClickHouse.Host),
		clickhouse.WithPort(cfg.ClickHouse.Port),
		clickhouse.WithDatabase(cfg.ClickHouse.Database),
		clickhouse.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		clickhouse.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return repository.NewAlertHistoryRepository(ctx, client)
}

// ProvideScheduler builds the push scheduler, or nil when pushes are off.
func ProvideScheduler(
	cfg *config.Config,
	runner *usecase.ScanRunner,
	tg *telegram.Client,
	history drepo.AlertHistory,
	log *logger.Logger,
) *scheduler.Scheduler {
	if !cfg.Scan.PushEnabled || cfg.Scan.Schedule == "" {
		return nil
	}
	return scheduler.New(cfg.Scan.Schedule, runner, tg, history, log)
}

// ProvideHandler builds the combined webhook and REST handler.
func ProvideHandler(log *logger.Logger, runner *usecase.ScanRunner, tg *telegram.Client) *api.Handler {
	return api.NewHandler(log, runner, tg)
}

// ProvideApp wires everything into the application lifecycle.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler *api.Handler,
	stream *sources.Stream,
	sched *scheduler.Scheduler,
	history drepo.AlertHistory,
	c cache.Service,
	tg *telegram.Client,
) *server.App {
	return server.NewApp(cfg, log, handler, stream, sched, history, c, tg)
}
