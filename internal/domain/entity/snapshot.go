package entity

import "time"

// TradeDirection — сторона сделки с точки зрения пользователя.
type TradeDirection string

const (
	TradeSell TradeDirection = "sell"
	TradeBuy  TradeDirection = "buy"
)

func (d TradeDirection) String() string {
	return string(d)
}

// Statistics — агрегаты по рабочему набору. Значения хранятся с полной
// точностью, округление до двух знаков происходит только на выдаче.
type Statistics struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Spread        float64 `json:"spread"`
	VerifiedCount int     `json:"verifiedCount"`
}

// MarketSnapshot — результат одного цикла опроса маркетплейса. Живёт только
// в кэше, на каждом обновлении строится заново.
type MarketSnapshot struct {
	Timestamp  time.Time      `json:"timestamp"`
	Direction  TradeDirection `json:"direction"`
	WorkingSet WorkingSet     `json:"workingSet"`
	Statistics Statistics     `json:"statistics"`
}
