package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type MarketplaceClient interface {
	FetchAdvertisements(ctx context.Context, direction entity.TradeDirection) ([]entity.Advertisement, error)
}

// SnapshotStore — общий (межпроцессный) кэш последнего снимка.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot entity.MarketSnapshot) error
	Latest(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, bool, error)
}

type Service struct {
	client   MarketplaceClient
	store    SnapshotStore
	params   Params
	ttl      time.Duration
	local    *cache.Cache
	alertCfg AlertConfig
	alerts   chan<- entity.SpreadAlert
	cooldown *cache.Cache
	now      func() time.Time
}

type AlertConfig struct {
	// SpreadPercent — относительный разброс (spread/min·100), начиная с
	// которого снимок считается поводом для алерта. Ноль выключает алерты.
	SpreadPercent float64
	Cooldown      time.Duration
}

func NewService(
	client MarketplaceClient,
	store SnapshotStore,
	params Params,
	snapshotTTL time.Duration,
) *Service {
	return &Service{
		client: client,
		store:  store,
		params: params,
		ttl:    snapshotTTL,
		local:  cache.New(snapshotTTL, time.Minute),
		now:    time.Now,
	}
}

// WithAlerts включает отправку SpreadAlert в канал после каждого обновления.
func (s *Service) WithAlerts(alerts chan<- entity.SpreadAlert, cfg AlertConfig) *Service {
	s.alerts = alerts
	s.alertCfg = cfg
	s.cooldown = cache.New(cfg.Cooldown, time.Minute)

	return s
}

// WorkingSetFrom прогоняет готовый список объявлений через конвейер отбора,
// минуя опрос маркетплейса. Используется для what-if расчётов над данными,
// которые принёс сам вызывающий.
func (s *Service) WorkingSetFrom(ads []entity.Advertisement) (entity.WorkingSet, error) {
	return BuildWorkingSet(ads, s.params)
}

// WithClock подменяет источник времени (для тестов).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot возвращает снимок рынка: из локального кэша, из общего хранилища
// (если он ещё не протух) или собирает свежий.
func (s *Service) Snapshot(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, error) {
	if cached, found := s.local.Get(direction.String()); found {
		return cached.(entity.MarketSnapshot), nil
	}

	if s.store != nil {
		shared, found, err := s.store.Latest(ctx, direction)
		if err != nil {
			logger(ctx).Warn("snapshot store read failed", logx.Error(err))
		} else if found && s.now().Sub(shared.Timestamp) < s.ttl {
			s.local.Set(direction.String(), shared, cache.DefaultExpiration)

			return shared, nil
		}
	}

	return s.Refresh(ctx, direction)
}

// Refresh собирает снимок заново: опрос маркетплейса, рабочий набор,
// статистика. Результат кладётся в оба кэша и оценивается на алерт.
func (s *Service) Refresh(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, error) {
	ads, err := s.client.FetchAdvertisements(ctx, direction)
	if err != nil {
		return entity.MarketSnapshot{}, fmt.Errorf("fetch advertisements: %w", err)
	}

	ws, err := BuildWorkingSet(ads, s.params)
	if err != nil {
		return entity.MarketSnapshot{}, fmt.Errorf("build working set: %w", err)
	}

	snapshot := entity.MarketSnapshot{
		Timestamp:  s.now(),
		Direction:  direction,
		WorkingSet: ws,
		Statistics: ComputeStatistics(ws),
	}

	s.local.Set(direction.String(), snapshot, cache.DefaultExpiration)

	if s.store != nil {
		if err := s.store.Save(ctx, snapshot); err != nil {
			logger(ctx).Warn("snapshot store write failed", logx.Error(err))
		}
	}

	logger(ctx).Info("market snapshot refreshed",
		slog.String("trade-direction", direction.String()),
		slog.Int("sample-size", ws.Size()),
		slog.Bool("used-fallback", ws.UsedFallback),
	)

	s.evaluateAlert(ctx, snapshot)

	return snapshot, nil
}

// evaluateAlert шлёт алерт при широком разбросе цен, не чаще одного раза
// за cooldown на направление. Отправка неблокирующая: переполненный канал
// не должен тормозить обновление снимка.
func (s *Service) evaluateAlert(ctx context.Context, snapshot entity.MarketSnapshot) {
	if s.alerts == nil || s.alertCfg.SpreadPercent <= 0 || snapshot.Statistics.Min <= 0 {
		return
	}

	spreadPercent := snapshot.Statistics.Spread / snapshot.Statistics.Min * 100

	if spreadPercent < s.alertCfg.SpreadPercent {
		return
	}

	if _, onCooldown := s.cooldown.Get(snapshot.Direction.String()); onCooldown {
		return
	}

	alert := entity.SpreadAlert{
		Direction:     snapshot.Direction,
		Statistics:    snapshot.Statistics,
		SpreadPercent: spreadPercent,
		Timestamp:     snapshot.Timestamp,
	}

	select {
	case s.alerts <- alert:
		s.cooldown.Set(snapshot.Direction.String(), true, cache.DefaultExpiration)
	default:
		logger(ctx).Warn("alert channel full, alert dropped",
			slog.String("trade-direction", snapshot.Direction.String()),
		)
	}
}
