package projection

import (
	"p2p_market/internal/domain/entity"
)

// distribution — сводка формы рынка: сколько объявлений стоит ниже и выше
// средневзвешенной цены и какая доля набора сидит в нижней и верхней ценовых
// квартилях.
type distribution struct {
	Total    int
	BelowAvg int
	AboveAvg int

	// Доли нижней и верхней ценовых квартилей от всего набора. Квартили
	// режутся строго по позиции (ceil(n/4) элементов с каждого края), а не
	// по равенству цен.
	LowConcentration  float64
	HighConcentration float64
}

// analyzeDistribution считает форму распределения по отсортированному по цене
// списку.
func analyzeDistribution(sorted []entity.Advertisement, avg float64) distribution {
	d := distribution{Total: len(sorted)}

	for _, ad := range sorted {
		if ad.Price < avg {
			d.BelowAvg++
		} else if ad.Price > avg {
			d.AboveAvg++
		}
	}

	n := len(sorted)
	quartileSize := (n + 3) / 4

	d.LowConcentration = float64(quartileSize) / float64(n)
	d.HighConcentration = float64(quartileSize) / float64(n)

	return d
}

// classifyTrend — приоритетные правила, первое сработавшее побеждает:
//
//  1. тихий рынок (волатильность < 1%) — стабильный;
//  2. масса объявлений выше средней (×1.5) — давление вверх;
//  3. масса ниже средней (×1.5) — давление вниз;
//  4. >60% набора прижато к верхней квартили — вверх;
//  5. >60% прижато к нижней — вниз;
//  6. иначе стабильный.
func classifyTrend(volatility float64, d distribution) entity.Trend {
	switch {
	case volatility < 0.01:
		return entity.TrendStable
	case float64(d.AboveAvg) > float64(d.BelowAvg)*1.5:
		return entity.TrendUp
	case float64(d.BelowAvg) > float64(d.AboveAvg)*1.5:
		return entity.TrendDown
	case d.HighConcentration > 0.6:
		return entity.TrendUp
	case d.LowConcentration > 0.6:
		return entity.TrendDown
	default:
		return entity.TrendStable
	}
}
