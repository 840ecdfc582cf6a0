package projection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
)

const (
	// horizonDays — глубина кривой. День 0 — снимок, дальше прогноз.
	horizonDays = 365

	// maxBaseChange — потолок базового прогнозируемого изменения (10%).
	maxBaseChange = 0.10

	// Полосы min/max волатильнее средней.
	minBandMultiplier = 0.8
	maxBandMultiplier = 1.2

	defaultWindowDays = 8
)

// Engine строит проекцию цен по одному снимку рынка. Чистое вычисление без
// ввода-вывода; каждый вызов независим, состояние между вызовами не живёт.
//
// Источник случайности инжектируется: продакшен сеет от времени, тесты — от
// фиксированного зерна и проверяют диапазоны, а не точные значения.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

type Option func(*Engine)

func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rng = rand.New(src) //nolint:gosec // не криптография, шум для графика
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // шум для графика
		now: time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Compute считает проекцию целиком: полосы цен, тренд, кривую на год вперёд,
// окно дат и рекомендацию. Любая арифметическая паника внутри движка
// перехватывается и превращается в ProjectionUnavailable — наружу уходит либо
// полная проекция, либо тегированный отказ, но никогда не половина.
func (e *Engine) Compute(
	ws entity.WorkingSet,
	direction entity.TradeDirection,
	basis entity.PriceBasis,
	dateRange *entity.DateRange,
) (projection entity.Projection, err error) {
	defer func() {
		if r := recover(); r != nil {
			projection = entity.Projection{Trend: entity.TrendUnknown}
			err = domain.NewError(errcodes.ProjectionUnavailable, fmt.Sprintf("projection engine fault: %v", r))
		}
	}()

	if ws.Size() == 0 {
		return entity.Projection{}, domain.NewError(errcodes.InsufficientData, "working set is empty")
	}

	sorted := make([]entity.Advertisement, len(ws.Advertisements))
	copy(sorted, ws.Advertisements)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	current := currentBands(sorted)
	volatility := bandVolatility(current)

	dist := analyzeDistribution(sorted, current.Avg)
	trend := classifyTrend(volatility, dist)
	baseChange := e.baseProjectedChange(trend, volatility)

	projectedChanges := entity.PriceBand{
		Min: baseChange * minBandMultiplier,
		Avg: baseChange,
		Max: baseChange * maxBandMultiplier,
	}

	projectedPrices := entity.PriceBand{
		Min: current.Min * (1 + projectedChanges.Min),
		Avg: current.Avg * (1 + projectedChanges.Avg),
		Max: current.Max * (1 + projectedChanges.Max),
	}

	points := e.generateCurve(current, trend, baseChange, volatility, direction)
	window, windowNote := selectWindow(points, dateRange)

	recommendation, bestTime := recommend(recommendInput{
		direction:       direction,
		trend:           trend,
		basis:           basis,
		current:         current,
		projectedPrices: projectedPrices,
		bestDay:         findBestDay(points),
	})

	return entity.Projection{
		Direction:        direction,
		Basis:            basis,
		Trend:            trend,
		CurrentPrices:    current,
		ProjectedPrices:  projectedPrices,
		ProjectedChanges: projectedChanges,
		Recommendation:   recommendation,
		BestTime:         bestTime,
		PricePoints:      points,
		Window:           window,
		WindowNote:       windowNote,
	}, nil
}

// currentBands — минимум и максимум по набору плюс средневзвешенная по
// доступному объёму цена. При нулевом суммарном объёме — середина диапазона.
func currentBands(sorted []entity.Advertisement) entity.PriceBand {
	minPrice := sorted[0].Price
	maxPrice := sorted[len(sorted)-1].Price

	var weighted, volume float64

	for _, ad := range sorted {
		weighted += ad.Price * ad.AvailableAmount
		volume += ad.AvailableAmount
	}

	avg := (minPrice + maxPrice) / 2
	if volume > 0 {
		avg = weighted / volume
	}

	return entity.PriceBand{Min: minPrice, Avg: avg, Max: maxPrice}
}

// bandVolatility — нормированный разброс цен (max−min)/avg.
func bandVolatility(band entity.PriceBand) float64 {
	if band.Avg == 0 {
		return 0
	}

	return (band.Max - band.Min) / band.Avg
}

// baseProjectedChange — величина движения на горизонте 7 дней. Для стабильного
// рынка берётся равномерный шум в ±1%: идеально плоская кривая выглядит
// неубедительно (осознанное продуктовое решение, см. DESIGN.md).
func (e *Engine) baseProjectedChange(trend entity.Trend, volatility float64) float64 {
	switch trend {
	case entity.TrendUp:
		return math.Min(maxBaseChange, volatility*2)
	case entity.TrendDown:
		return -math.Min(maxBaseChange, volatility*2)
	default:
		return e.rng.Float64()*0.02 - 0.01
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
