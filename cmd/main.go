package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"p2p_market/internal/config"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/market"
	"p2p_market/internal/domain/service/projection"
	"p2p_market/internal/infrastructure/binance"
	"p2p_market/internal/infrastructure/notifier"
	"p2p_market/internal/infrastructure/snapshotcache"
	"p2p_market/internal/server"
	"p2p_market/internal/worker"
	"p2p_market/pkg/application/connectors"
	"p2p_market/pkg/application/modules"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/httpx"
	"p2p_market/pkg/logx"
	"p2p_market/pkg/middlewarex"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func run(ctx context.Context) error { //nolint:funlen
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// 2. Redis
	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)

	defer rd.Close(ctx)

	// 3. Инфраструктура маркетплейса
	masker := logx.NewSensitiveDataMasker()

	binanceClient := binance.NewClient(cfg.Binance, &http.Client{
		Timeout: cfg.Binance.RequestTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(masker),
			httpx.WithLogFieldMaxLen(cfg.Server.LogFieldMaxLen),
		),
	})

	snapshotStore := snapshotcache.NewStore(redisClient, cfg.Redis.SnapshotTTL)

	// 4. Доменные сервисы
	marketService := market.NewService(
		binanceClient,
		snapshotStore,
		market.Params{
			DedupTolerance:   cfg.Market.DedupTolerance,
			MinOrders:        cfg.Market.MinOrders,
			FallbackMinCount: cfg.Market.FallbackMinCount,
		},
		cfg.Market.SnapshotTTL,
	)

	projectionEngine := projection.NewEngine()

	// 5. Алерты: без токена бота просто не включаются
	if cfg.Bot.Token != "" {
		alerts := make(chan entity.SpreadAlert, 100)

		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		go func() {
			if err := alertBot.Run(ctx, alerts); err != nil && ctx.Err() == nil {
				slog.Default().Error("notifier bot stopped", logx.Error(err))
			}
		}()

		marketService.WithAlerts(alerts, market.AlertConfig{
			SpreadPercent: cfg.Market.AlertSpreadPercent,
			Cooldown:      cfg.Market.AlertCooldown,
		})
	}

	// 6. HTTP
	marketServer := server.NewMarketServer(marketService, projectionEngine)
	srv := server.NewServer(marketServer)

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Server.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	// 7. Фоновое обновление снимков
	refreshHandler := worker.NewRefreshHandler(marketService)

	sellTask, err := worker.NewRefreshTask(entity.TradeSell)
	if err != nil {
		return fmt.Errorf("worker.NewRefreshTask: %w", err)
	}

	buyTask, err := worker.NewRefreshTask(entity.TradeBuy)
	if err != nil {
		return fmt.Errorf("worker.NewRefreshTask: %w", err)
	}

	// 8. Модули приложения
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	})

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricListenAddress,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeListenAddress,
	}.Run(ctx, g)

	modules.AsynqServer{
		RedisAddress:  cfg.Redis.Address,
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		modules.AsynqHandler{Pattern: worker.TaskMarketRefresh, Handle: refreshHandler.Handle},
	)

	modules.AsynqScheduler{
		RedisAddress:  cfg.Redis.Address,
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqSchedulerEntry{Cronspec: "@every " + cfg.Market.RefreshInterval.String(), Task: sellTask},
		modules.AsynqSchedulerEntry{Cronspec: "@every " + cfg.Market.RefreshInterval.String(), Task: buyTask},
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
