package entity

import "time"

// Trend — грубая классификация направления рынка по распределению цен
// в снимке, без исторических рядов.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

func (t Trend) String() string {
	return string(t)
}

// PriceBasis — какая из полос min/avg/max ведёт текстовую рекомендацию.
type PriceBasis string

const (
	BasisMin PriceBasis = "min"
	BasisAvg PriceBasis = "avg"
	BasisMax PriceBasis = "max"
)

func (b PriceBasis) String() string {
	return string(b)
}

// PriceBand — значение по трём базисам сразу.
type PriceBand struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// ByBasis возвращает значение полосы для выбранного базиса.
func (p PriceBand) ByBasis(basis PriceBasis) float64 {
	switch basis {
	case BasisMin:
		return p.Min
	case BasisMax:
		return p.Max
	default:
		return p.Avg
	}
}

// PricePoint — одна точка прогнозной кривой. DayOffset 0 — день снимка.
type PricePoint struct {
	DayOffset int       `json:"dayOffset"`
	Date      time.Time `json:"date"`
	Prices    PriceBand `json:"prices"`

	// Changes — изменение к дню 0, в процентах.
	Changes PriceBand `json:"changes"`

	// Label — не более одной пометки из фиксированного словаря.
	Label string `json:"label,omitempty"`
}

// DateRange — пользовательский фильтр окна кривой, включительно по дням.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Projection — производное состояние поверх снимка: пересчитывается целиком
// при каждом изменении входов и нигде не хранится.
type Projection struct {
	Direction        TradeDirection `json:"direction"`
	Basis            PriceBasis     `json:"basis"`
	Trend            Trend          `json:"trend"`
	CurrentPrices    PriceBand      `json:"currentPrices"`
	ProjectedPrices  PriceBand      `json:"projectedPrices"`
	ProjectedChanges PriceBand      `json:"projectedChanges"`
	Recommendation   string         `json:"recommendation"`
	BestTime         string         `json:"bestTime"`

	// PricePoints — полная кривая, дни 0..365.
	PricePoints []PricePoint `json:"pricePoints"`

	// Window — точки, попавшие в выбранное окно дат (по умолчанию дни 0..7).
	Window []PricePoint `json:"window"`

	// WindowNote — информационная пометка про применённый фильтр дат.
	WindowNote string `json:"windowNote,omitempty"`
}
