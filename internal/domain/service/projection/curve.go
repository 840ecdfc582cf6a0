package projection

import (
	"math"
	"strings"
	"time"

	"p2p_market/internal/domain/entity"
)

// Словарь пометок кривой. Точка несёт не больше одной.
const (
	labelCurrentPrice = "Current price"

	labelBestDaySell      = "Best day to sell"
	labelBestDayBuy       = "Best day to buy"
	labelBestDaySellToday = "Best day to sell (today)"
	labelBestDayBuyToday  = "Best day to buy (today)"
	labelPeakPrice        = "Peak price"
	labelLowestPrice      = "Lowest price"
)

// milestoneLabels — служебные вехи, ставятся только на непомеченные дни.
var milestoneLabels = map[int]string{
	1:   "Tomorrow",
	2:   "In two days",
	7:   "7-day projection",
	14:  "14-day projection",
	30:  "30-day projection",
	90:  "3-month projection",
	180: "6-month projection",
	365: "1-year projection",
}

// generateCurve строит все 366 точек кривой: день 0 — снимок как есть, дальше
// дневной фактор тренда плюс равномерный шум, растущий с горизонтом.
func (e *Engine) generateCurve(
	current entity.PriceBand,
	trend entity.Trend,
	baseChange float64,
	volatility float64,
	direction entity.TradeDirection,
) []entity.PricePoint {
	changeSpeed := clamp(volatility*10, 0.2, 1.5)
	peakDay := int(clamp(math.Round(5/(changeSpeed*100)), 3, 7))

	today := e.now()
	points := make([]entity.PricePoint, 0, horizonDays+1)

	points = append(points, entity.PricePoint{
		DayOffset: 0,
		Date:      today,
		Prices:    current,
		Changes:   entity.PriceBand{},
		Label:     labelCurrentPrice,
	})

	for day := 1; day <= horizonDays; day++ {
		factor := e.dayFactor(trend, baseChange, day, peakDay)
		noise := (e.rng.Float64()*0.01 - 0.005) * float64(day)

		factors := entity.PriceBand{
			Min: factor*minBandMultiplier + noise,
			Avg: factor + noise,
			Max: factor*maxBandMultiplier + noise,
		}

		point := entity.PricePoint{
			DayOffset: day,
			Date:      today.AddDate(0, 0, day),
			Prices: entity.PriceBand{
				Min: current.Min * (1 + factors.Min),
				Avg: current.Avg * (1 + factors.Avg),
				Max: current.Max * (1 + factors.Max),
			},
			Changes: entity.PriceBand{
				Min: factors.Min * 100,
				Avg: factors.Avg * 100,
				Max: factors.Max * 100,
			},
		}

		if day == peakDay {
			point.Label = peakLabel(trend, direction)
		}

		if point.Label == "" {
			point.Label = milestoneLabels[day]
		}

		points = append(points, point)
	}

	markTodayIfNoBestDay(points, trend, direction)

	return points
}

// dayFactor — трендовая составляющая изменения на день day. Знак baseChange
// уже несёт направление, одна формула обслуживает оба тренда: полусинусный
// разгон до пика, полусинусный спад до 2×пика, дальше затухание с наложенной
// десятидневной осцилляцией. Для стабильного рынка — случайное блуждание,
// растущее с горизонтом.
func (e *Engine) dayFactor(trend entity.Trend, baseChange float64, day, peakDay int) float64 {
	if trend == entity.TrendStable {
		return (e.rng.Float64()*0.02 - 0.01) * float64(day) / 7
	}

	d := float64(day)
	p := float64(peakDay)

	switch {
	case day <= peakDay:
		return math.Sin(d/p*math.Pi/2) * baseChange * 2
	case day <= 2*peakDay:
		return math.Sin(p/d*math.Pi/2) * baseChange * 2
	default:
		cycle := math.Sin((d-2*p)/10*math.Pi) * baseChange

		return math.Sin(p/d*math.Pi/2)*baseChange*1.5 + cycle
	}
}

// peakLabel — пометка дня экстремума. Лучший день для действия получает та
// сторона, которой движение выгодно; противоположной стороне экстремум
// показывается как справочный.
func peakLabel(trend entity.Trend, direction entity.TradeDirection) string {
	switch trend {
	case entity.TrendUp:
		if direction == entity.TradeSell {
			return labelBestDaySell
		}

		return labelPeakPrice
	case entity.TrendDown:
		if direction == entity.TradeBuy {
			return labelBestDayBuy
		}

		return labelLowestPrice
	default:
		return ""
	}
}

// markTodayIfNoBestDay помечает день 0 как лучший, когда тренд не в пользу
// стороны сделки: продавцу при падении и покупателю при росте выгодно
// действовать немедленно.
func markTodayIfNoBestDay(points []entity.PricePoint, trend entity.Trend, direction entity.TradeDirection) {
	for _, p := range points {
		if isBestDayLabel(p.Label) {
			return
		}
	}

	switch {
	case direction == entity.TradeSell && trend == entity.TrendDown:
		points[0].Label = labelBestDaySellToday
	case direction == entity.TradeBuy && trend == entity.TrendUp:
		points[0].Label = labelBestDayBuyToday
	}
}

func isBestDayLabel(label string) bool {
	return strings.HasPrefix(label, labelBestDaySell) || strings.HasPrefix(label, labelBestDayBuy)
}

// findBestDay возвращает точку с пометкой лучшего дня, если она есть.
func findBestDay(points []entity.PricePoint) *entity.PricePoint {
	for i := range points {
		if isBestDayLabel(points[i].Label) {
			return &points[i]
		}
	}

	return nil
}

// selectWindow применяет пользовательский фильтр дат к кривой. Даты точек
// нормализуются к полудню, чтобы границы суток не зависели от часового пояса
// снимка. Кривой фильтр не ошибка: некорректный или пустой диапазон тихо
// откатывается к окну по умолчанию с пометкой.
func selectWindow(points []entity.PricePoint, dateRange *entity.DateRange) ([]entity.PricePoint, string) {
	defaultWindow := points
	if len(points) > defaultWindowDays {
		defaultWindow = points[:defaultWindowDays]
	}

	if dateRange == nil {
		return defaultWindow, ""
	}

	if dateRange.From.IsZero() || dateRange.To.IsZero() || dateRange.From.After(dateRange.To) {
		return defaultWindow, "invalid date range, showing the default 8-day window"
	}

	loc := dateRange.From.Location()
	from := atMidnight(dateRange.From, loc)
	to := atMidnight(dateRange.To, loc).Add(24*time.Hour - time.Second)

	window := make([]entity.PricePoint, 0, defaultWindowDays)

	for _, p := range points {
		midday := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 12, 0, 0, 0, loc)
		if !midday.Before(from) && !midday.After(to) {
			window = append(window, p)
		}
	}

	if len(window) == 0 {
		return defaultWindow, "date range contains no projected days, showing the default 8-day window"
	}

	return window, ""
}

func atMidnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
