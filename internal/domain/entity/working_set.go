package entity

// WorkingSet — дедуплицированный и отфильтрованный по опыту набор объявлений,
// на котором считается вся статистика и проекция.
type WorkingSet struct {
	Advertisements []Advertisement `json:"advertisements"`

	// UsedFallback — true, если опытных продавцов не хватило и в набор попали
	// все объявления, отсортированные по опыту.
	UsedFallback bool `json:"usedFallback"`

	// MinExperienceThreshold — порог monthOrderCount, применявшийся при отборе.
	MinExperienceThreshold int `json:"minExperienceThreshold"`

	// DeduplicatedCount — размер набора до фильтра по опыту.
	DeduplicatedCount int `json:"deduplicatedCount"`
}

func (ws WorkingSet) Size() int {
	return len(ws.Advertisements)
}
