package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/httpx/reply"
	"p2p_market/pkg/httpx/req"
	"p2p_market/pkg/rest"
)

type marketService interface {
	Snapshot(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, error)
	Refresh(ctx context.Context, direction entity.TradeDirection) (entity.MarketSnapshot, error)
	WorkingSetFrom(ads []entity.Advertisement) (entity.WorkingSet, error)
}

type projectionEngine interface {
	Compute(
		ws entity.WorkingSet,
		direction entity.TradeDirection,
		basis entity.PriceBasis,
		dateRange *entity.DateRange,
	) (entity.Projection, error)
}

type MarketServer struct {
	marketService    marketService
	projectionEngine projectionEngine
}

func NewMarketServer(marketService marketService, projectionEngine projectionEngine) MarketServer {
	return MarketServer{
		marketService:    marketService,
		projectionEngine: projectionEngine,
	}
}

func (s MarketServer) getV1Market(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	direction, err := parseTradeSide(r.PathValue("side"))
	if err != nil {
		return err
	}

	snapshot, err := s.marketService.Snapshot(ctx, direction)
	if err != nil {
		return asTransportError(fmt.Errorf("marketService.Snapshot: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMarketSnapshot(snapshot))

	return nil
}

func (s MarketServer) getV1MarketStatistics(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	direction, err := parseTradeSide(r.PathValue("side"))
	if err != nil {
		return err
	}

	snapshot, err := s.marketService.Snapshot(ctx, direction)
	if err != nil {
		return asTransportError(fmt.Errorf("marketService.Snapshot: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStatistics(snapshot))

	return nil
}

func (s MarketServer) getV1MarketProjection(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	direction, err := parseTradeSide(r.PathValue("side"))
	if err != nil {
		return err
	}

	basis, err := parsePriceBasis(r.URL.Query().Get("basis"))
	if err != nil {
		return err
	}

	dateRange := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	snapshot, err := s.marketService.Snapshot(ctx, direction)
	if err != nil {
		return asTransportError(fmt.Errorf("marketService.Snapshot: %w", err))
	}

	projection, err := s.projectionEngine.Compute(snapshot.WorkingSet, direction, basis, dateRange)
	if err != nil {
		return asTransportError(fmt.Errorf("projectionEngine.Compute: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProjection(projection))

	return nil
}

// postV1MarketProjection — what-if расчёт: прогноз по объявлениям из тела
// запроса вместо живого снимка. Набор проходит тот же конвейер отбора.
func (s MarketServer) postV1MarketProjection(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	direction, err := parseTradeSide(r.PathValue("side"))
	if err != nil {
		return err
	}

	var request rest.ProjectionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	basis, err := parsePriceBasis(request.Basis)
	if err != nil {
		return err
	}

	ws, err := s.marketService.WorkingSetFrom(newDomainAdvertisements(request.Advertisements))
	if err != nil {
		return asTransportError(fmt.Errorf("marketService.WorkingSetFrom: %w", err))
	}

	projection, err := s.projectionEngine.Compute(ws, direction, basis, parseDateRange(request.From, request.To))
	if err != nil {
		return asTransportError(fmt.Errorf("projectionEngine.Compute: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProjection(projection))

	return nil
}

func (s MarketServer) postV1MarketRefresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	direction, err := parseTradeSide(r.PathValue("side"))
	if err != nil {
		return err
	}

	snapshot, err := s.marketService.Refresh(ctx, direction)
	if err != nil {
		return asTransportError(fmt.Errorf("marketService.Refresh: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMarketSnapshot(snapshot))

	return nil
}

func parseTradeSide(raw string) (entity.TradeDirection, error) {
	switch entity.TradeDirection(raw) {
	case entity.TradeSell, entity.TradeBuy:
		return entity.TradeDirection(raw), nil
	default:
		return "", failure.NewInvalidArgumentError(
			"invalid trade side",
			failure.WithCode(errcodes.InvalidTradeSide),
			failure.WithDescription(fmt.Sprintf("trade side must be %q or %q, got %q", entity.TradeSell, entity.TradeBuy, raw)),
		)
	}
}

func parsePriceBasis(raw string) (entity.PriceBasis, error) {
	if raw == "" {
		return entity.BasisAvg, nil
	}

	switch entity.PriceBasis(raw) {
	case entity.BasisMin, entity.BasisAvg, entity.BasisMax:
		return entity.PriceBasis(raw), nil
	default:
		return "", failure.NewInvalidArgumentError(
			"invalid price basis",
			failure.WithCode(errcodes.InvalidPriceBasis),
			failure.WithDescription(fmt.Sprintf("price basis must be min, avg or max, got %q", raw)),
		)
	}
}

// parseDateRange разбирает границы окна. Кривые даты не превращаются в 400:
// движок сам откатится к окну по умолчанию и пометит это в ответе.
func parseDateRange(from, to string) *entity.DateRange {
	if from == "" && to == "" {
		return nil
	}

	dateRange := &entity.DateRange{}

	if t, err := time.Parse(time.DateOnly, from); err == nil {
		dateRange.From = t
	}

	if t, err := time.Parse(time.DateOnly, to); err == nil {
		dateRange.To = t
	}

	return dateRange
}
