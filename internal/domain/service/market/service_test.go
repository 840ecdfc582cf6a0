package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/market"
)

type fakeClient struct {
	ads   []entity.Advertisement
	calls int
}

func (c *fakeClient) FetchAdvertisements(_ context.Context, _ entity.TradeDirection) ([]entity.Advertisement, error) {
	c.calls++
	return c.ads, nil
}

type fakeStore struct {
	saved    []entity.MarketSnapshot
	latest   entity.MarketSnapshot
	hasValue bool
}

func (s *fakeStore) Save(_ context.Context, snapshot entity.MarketSnapshot) error {
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *fakeStore) Latest(_ context.Context, _ entity.TradeDirection) (entity.MarketSnapshot, bool, error) {
	return s.latest, s.hasValue, nil
}

func testAds() []entity.Advertisement {
	return []entity.Advertisement{
		ad("a", 10.0, 600),
		ad("b", 10.2, 700),
		ad("c", 10.4, 800),
		ad("d", 10.1, 900),
		ad("e", 10.3, 650),
	}
}

func TestServiceSnapshotUsesLocalCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	client := &fakeClient{ads: testAds()}
	store := &fakeStore{}
	svc := market.NewService(client, store, market.DefaultParams(), time.Minute)

	first, err := svc.Snapshot(ctx, entity.TradeSell)
	rq.NoError(err)
	rq.Equal(1, client.calls)
	rq.Len(store.saved, 1)

	second, err := svc.Snapshot(ctx, entity.TradeSell)
	rq.NoError(err)
	rq.Equal(1, client.calls, "second read must come from the local cache")
	rq.Equal(first.Timestamp, second.Timestamp)
}

func TestServiceSnapshotUsesFreshSharedStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	shared := entity.MarketSnapshot{
		Timestamp: now.Add(-30 * time.Second),
		Direction: entity.TradeBuy,
		WorkingSet: entity.WorkingSet{
			Advertisements: testAds(),
		},
	}

	client := &fakeClient{ads: testAds()}
	store := &fakeStore{latest: shared, hasValue: true}

	svc := market.NewService(client, store, market.DefaultParams(), time.Minute).
		WithClock(func() time.Time { return now })

	got, err := svc.Snapshot(ctx, entity.TradeBuy)
	rq.NoError(err)
	rq.Equal(0, client.calls, "fresh shared snapshot must not trigger a fetch")
	rq.Equal(shared.Timestamp, got.Timestamp)
}

func TestServiceSnapshotRefreshesStaleSharedStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeStore{
		latest:   entity.MarketSnapshot{Timestamp: now.Add(-time.Hour), Direction: entity.TradeSell},
		hasValue: true,
	}
	client := &fakeClient{ads: testAds()}

	svc := market.NewService(client, store, market.DefaultParams(), time.Minute).
		WithClock(func() time.Time { return now })

	got, err := svc.Snapshot(ctx, entity.TradeSell)
	rq.NoError(err)
	rq.Equal(1, client.calls)
	rq.Equal(now, got.Timestamp)
}

func TestServiceSpreadAlert(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	// Разброс 10.0..11.0 — 10% при пороге 3%.
	wide := []entity.Advertisement{
		ad("a", 10.0, 600),
		ad("b", 10.5, 700),
		ad("c", 11.0, 800),
		ad("d", 10.2, 900),
		ad("e", 10.8, 650),
	}

	alerts := make(chan entity.SpreadAlert, 1)
	client := &fakeClient{ads: wide}

	svc := market.NewService(client, nil, market.DefaultParams(), time.Minute).
		WithAlerts(alerts, market.AlertConfig{SpreadPercent: 3, Cooldown: time.Hour})

	_, err := svc.Refresh(ctx, entity.TradeSell)
	rq.NoError(err)

	select {
	case alert := <-alerts:
		rq.Equal(entity.TradeSell, alert.Direction)
		rq.InDelta(10.0, alert.SpreadPercent, 1e-9)
	default:
		t.Fatal("expected a spread alert")
	}

	// Повторное обновление в пределах cooldown алерт не шлёт.
	_, err = svc.Refresh(ctx, entity.TradeSell)
	rq.NoError(err)
	rq.Empty(alerts)
}

func TestServiceNoAlertBelowThreshold(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	alerts := make(chan entity.SpreadAlert, 1)
	client := &fakeClient{ads: testAds()}

	svc := market.NewService(client, nil, market.DefaultParams(), time.Minute).
		WithAlerts(alerts, market.AlertConfig{SpreadPercent: 5, Cooldown: time.Hour})

	_, err := svc.Refresh(ctx, entity.TradeSell)
	rq.NoError(err)
	rq.Empty(alerts)
}
