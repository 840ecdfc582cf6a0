package snapshotcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"p2p_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Store — общий кэш последнего снимка рынка поверх redis. Снимок переживает
// рестарт процесса и разделяется между HTTP-сервером и воркером обновления.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

func (s *Store) Save(ctx context.Context, snapshot entity.MarketSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, snapshotKey(snapshot.Direction), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

func (s *Store) Latest(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, bool, error) {
	payload, err := s.client.Get(ctx, snapshotKey(direction)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.MarketSnapshot{}, false, nil
	}

	if err != nil {
		return entity.MarketSnapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var snapshot entity.MarketSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return entity.MarketSnapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return snapshot, true, nil
}

func snapshotKey(direction entity.TradeDirection) string {
	return "p2p_market:snapshot:" + direction.String()
}
