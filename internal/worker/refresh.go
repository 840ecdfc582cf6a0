// Пакет worker держит фоновое обновление снимков рынка: периодическая задача
// asynq на каждую сторону сделки, чтобы HTTP-запросы почти всегда попадали
// в тёплый кэш.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/contextx"
)

const TaskMarketRefresh = "market:refresh"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type refreshPayload struct {
	Direction entity.TradeDirection `json:"direction"`
}

// NewRefreshTask собирает задачу обновления снимка для одной стороны сделки.
func NewRefreshTask(direction entity.TradeDirection) (*asynq.Task, error) {
	payload, err := json.Marshal(refreshPayload{Direction: direction})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return asynq.NewTask(TaskMarketRefresh, payload), nil
}

type marketRefresher interface {
	Refresh(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, error)
}

type RefreshHandler struct {
	market marketRefresher
}

func NewRefreshHandler(market marketRefresher) RefreshHandler {
	return RefreshHandler{market: market}
}

func (h RefreshHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload refreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	snapshot, err := h.market.Refresh(ctx, payload.Direction)
	if err != nil {
		refreshTotal.WithLabelValues(payload.Direction.String(), "error").Inc()

		return fmt.Errorf("market.Refresh %s: %w", payload.Direction, err)
	}

	refreshTotal.WithLabelValues(payload.Direction.String(), "ok").Inc()

	logger(ctx).Info("market snapshot refreshed",
		slog.String("direction", payload.Direction.String()),
		slog.Int("sample-size", snapshot.WorkingSet.Size()),
		slog.Bool("used-fallback", snapshot.WorkingSet.UsedFallback),
	)

	return nil
}
