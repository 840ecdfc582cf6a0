// Разовый запуск конвейера без сервера: опросить маркетплейс по обеим
// сторонам, напечатать статистику и прогноз в stdout. Удобно для проверки
// параметров отбора с консоли.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lmittmann/tint"

	"p2p_market/internal/config"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/market"
	"p2p_market/internal/domain/service/projection"
	"p2p_market/internal/infrastructure/binance"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

func main() {
	basis := flag.String("basis", "avg", "price basis for the recommendation: min, avg or max")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, entity.PriceBasis(*basis)); err != nil {
		log.Error("analyze failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, basis entity.PriceBasis) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	client := binance.NewClient(cfg.Binance, &http.Client{Timeout: cfg.Binance.RequestTimeout})

	params := market.Params{
		DedupTolerance:   cfg.Market.DedupTolerance,
		MinOrders:        cfg.Market.MinOrders,
		FallbackMinCount: cfg.Market.FallbackMinCount,
	}

	engine := projection.NewEngine()
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for _, direction := range []entity.TradeDirection{entity.TradeSell, entity.TradeBuy} {
		ads, err := client.FetchAdvertisements(ctx, direction)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", direction, err)
		}

		ws, err := market.BuildWorkingSet(ads, params)
		if err != nil {
			return fmt.Errorf("build working set %s: %w", direction, err)
		}

		stats := market.ComputeStatistics(ws)

		proj, err := engine.Compute(ws, direction, basis, nil)
		if err != nil {
			return fmt.Errorf("projection %s: %w", direction, err)
		}

		report := struct {
			Timestamp  time.Time             `json:"timestamp"`
			Direction  entity.TradeDirection `json:"direction"`
			SampleSize int                   `json:"sampleSize"`
			Statistics entity.Statistics     `json:"statistics"`
			Projection entity.Projection     `json:"projection"`
		}{
			Timestamp:  time.Now(),
			Direction:  direction,
			SampleSize: ws.Size(),
			Statistics: stats,
			Projection: proj,
		}

		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}

	return nil
}
