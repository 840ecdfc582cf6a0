package entity

import "time"

// SpreadAlert — сигнал о широком разбросе цен в свежем снимке: повод
// посмотреть на рынок руками.
type SpreadAlert struct {
	Direction     TradeDirection
	Statistics    Statistics
	SpreadPercent float64
	Timestamp     time.Time
}
