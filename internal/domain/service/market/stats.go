package market

import "p2p_market/internal/domain/entity"

// ComputeStatistics считает агрегаты по непустому рабочему набору.
// Никакого округления: полная точность нужна движку проекции, до двух
// знаков цены приводятся только в REST-слое.
func ComputeStatistics(ws entity.WorkingSet) entity.Statistics {
	stats := entity.Statistics{
		Min: ws.Advertisements[0].Price,
		Max: ws.Advertisements[0].Price,
	}

	for _, ad := range ws.Advertisements {
		if ad.Price < stats.Min {
			stats.Min = ad.Price
		}

		if ad.Price > stats.Max {
			stats.Max = ad.Price
		}

		if ad.IsVerified {
			stats.VerifiedCount++
		}
	}

	stats.Spread = stats.Max - stats.Min

	return stats
}
