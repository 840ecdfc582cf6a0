package projection

import (
	"fmt"
	"strconv"

	"p2p_market/internal/domain/entity"
)

type recommendInput struct {
	direction       entity.TradeDirection
	trend           entity.Trend
	basis           entity.PriceBasis
	current         entity.PriceBand
	projectedPrices entity.PriceBand
	bestDay         *entity.PricePoint
}

// recommend собирает текстовую рекомендацию и короткую подсказку о моменте
// действия. Правило спаривания: рост рынка велит продавцу ждать пика, падение
// велит продавать немедленно; для покупателя зеркально.
func recommend(in recommendInput) (recommendation, bestTime string) {
	currentPrice := formatPrice(in.current.ByBasis(in.basis))
	targetPrice := formatPrice(in.projectedPrices.ByBasis(in.basis))

	bestDate := "the coming days"
	if in.bestDay != nil {
		targetPrice = formatPrice(in.bestDay.Prices.ByBasis(in.basis))
		bestDate = in.bestDay.Date.Format("Monday, January 2")
	}

	switch {
	case in.direction == entity.TradeSell && in.trend == entity.TrendUp:
		recommendation = fmt.Sprintf(
			"Prices are projected to rise from the current %s and could reach %s by %s.",
			currentPrice, targetPrice, bestDate,
		)
		bestTime = fmt.Sprintf("Wait until %s to sell at the best price.", bestDate)

	case in.direction == entity.TradeSell && in.trend == entity.TrendDown:
		recommendation = fmt.Sprintf(
			"Prices are projected to fall from the current %s and will start dropping soon.",
			currentPrice,
		)
		bestTime = "Sell today or as soon as possible to get the best price."

	case in.direction == entity.TradeBuy && in.trend == entity.TrendDown:
		recommendation = fmt.Sprintf(
			"Prices are projected to fall from the current %s and could drop to %s by %s.",
			currentPrice, targetPrice, bestDate,
		)
		bestTime = fmt.Sprintf("Wait until %s to buy at the best price.", bestDate)

	case in.direction == entity.TradeBuy && in.trend == entity.TrendUp:
		recommendation = fmt.Sprintf(
			"Prices are projected to rise from the current %s and will start climbing soon.",
			currentPrice,
		)
		bestTime = "Buy today or as soon as possible to get the best price."

	default:
		recommendation = fmt.Sprintf(
			"Prices look stable around the current %s, no significant moves are expected.",
			currentPrice,
		)
		bestTime = "Timing is not critical while the market stays flat."
	}

	return recommendation, bestTime
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
