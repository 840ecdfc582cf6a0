package market

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
)

// Params — параметры конвейера отбора. Значения по умолчанию повторяют
// исходный продукт; обоснования у них нет, поэтому они не зашиты в код.
type Params struct {
	// DedupTolerance — абсолютный допуск цены, ниже которого два объявления
	// одного продавца считаются дублем.
	DedupTolerance float64

	// MinOrders — минимальный monthOrderCount для фильтра по опыту.
	MinOrders int

	// FallbackMinCount — если после фильтра осталось меньше, фильтр
	// отбрасывается и берётся весь дедуплицированный набор.
	FallbackMinCount int
}

func DefaultParams() Params {
	return Params{
		DedupTolerance:   0.01,
		MinOrders:        500,
		FallbackMinCount: 5,
	}
}

// BuildWorkingSet строит рабочий набор: дедупликация, фильтр по опыту,
// откат на полный набор при нехватке опытных продавцов. Пустой
// дедуплицированный набор — ошибка InsufficientData: дальше считать нечего.
func BuildWorkingSet(ads []entity.Advertisement, p Params) (entity.WorkingSet, error) {
	unique := deduplicate(ads, p.DedupTolerance)

	if len(unique) == 0 {
		return entity.WorkingSet{}, domain.NewError(errcodes.InsufficientData, "no advertisements after deduplication")
	}

	filtered := lo.Filter(unique, func(ad entity.Advertisement, _ int) bool {
		return ad.MonthOrderCount >= p.MinOrders
	})

	if len(filtered) < p.FallbackMinCount {
		// Опытных продавцов мало — показываем всех, лучшие сверху.
		all := make([]entity.Advertisement, len(unique))
		copy(all, unique)

		sort.SliceStable(all, func(i, j int) bool {
			return all[i].MonthOrderCount > all[j].MonthOrderCount
		})

		return entity.WorkingSet{
			Advertisements:         all,
			UsedFallback:           true,
			MinExperienceThreshold: p.MinOrders,
			DeduplicatedCount:      len(unique),
		}, nil
	}

	return entity.WorkingSet{
		Advertisements:         filtered,
		UsedFallback:           false,
		MinExperienceThreshold: p.MinOrders,
		DeduplicatedCount:      len(unique),
	}, nil
}

// deduplicate оставляет первое вхождение каждой пары (продавец, цена±допуск).
// Наивное O(n²) сравнение: объявлений десятки. Вырастет объём — заменить на
// группировку по advertiserID.
func deduplicate(ads []entity.Advertisement, tolerance float64) []entity.Advertisement {
	unique := make([]entity.Advertisement, 0, len(ads))

	for _, ad := range ads {
		isDuplicate := false

		for _, u := range unique {
			if u.AdvertiserID == ad.AdvertiserID && math.Abs(u.Price-ad.Price) < tolerance {
				isDuplicate = true

				break
			}
		}

		if !isDuplicate {
			unique = append(unique, ad)
		}
	}

	return unique
}
