// Данный файл описывает модели HTTP API анализатора. При появлении openapi
// спецификации должен быть сгенерирован из неё и называться types.gen.go
package rest

// Advertiser Публичный профиль продавца/покупателя
type Advertiser struct {
	// ID Идентификатор на маркетплейсе
	ID string `json:"id"`

	// Name Отображаемое имя
	Name string `json:"name"`

	// MonthOrderCount Кол-во сделок за месяц (показатель опыта)
	MonthOrderCount int `json:"monthOrderCount"`

	// MonthCompletionRate Доля завершённых сделок, [0,1]
	MonthCompletionRate float64 `json:"monthCompletionRate"`

	// IsVerified Признак про-мерчанта
	IsVerified bool `json:"isVerified"`
}

// Advertisement Одно объявление рабочего набора
type Advertisement struct {
	Advertiser Advertiser `json:"advertiser"`

	// Price Цена за единицу актива в фиате
	Price float64 `json:"price" validate:"gt=0"`

	// Available Доступный объём актива
	Available float64 `json:"available" validate:"gte=0"`

	Limits Limits `json:"limits"`

	// PayMethods Теги способов оплаты
	PayMethods []string `json:"payMethods"`
}

// Limits Лимиты одной транзакции
type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// MinInAsset Нижний лимит, пересчитанный в актив по цене объявления
	MinInAsset float64 `json:"minInAsset"`

	// MaxInAsset Верхний лимит, пересчитанный в актив по цене объявления
	MaxInAsset float64 `json:"maxInAsset"`
}

// PriceStats Сводка цен рабочего набора; значения в строках с двумя знаками
type PriceStats struct {
	Min    string `json:"min"`
	Max    string `json:"max"`
	Spread string `json:"spread"`
}

// FilterInfo Как был построен рабочий набор
type FilterInfo struct {
	MinOrders     int  `json:"minOrders"`
	TotalCount    int  `json:"totalCount"`
	VerifiedCount int  `json:"verifiedCount"`
	UsingAllAds   bool `json:"usingAllAds"`
	TotalAdsFound int  `json:"totalAdsFound"`
}

// Statistics Агрегаты рабочего набора без списка объявлений
type Statistics struct {
	Timestamp     string     `json:"timestamp"`
	TradeType     string     `json:"tradeType"`
	PriceStats    PriceStats `json:"priceStats"`
	VerifiedCount int        `json:"verifiedCount"`
	SampleSize    int        `json:"sampleSize"`
}

// MarketSnapshot Основной ответ по рынку
type MarketSnapshot struct {
	Timestamp      string          `json:"timestamp"`
	TradeType      string          `json:"tradeType"`
	PriceStats     PriceStats      `json:"priceStats"`
	SampleSize     int             `json:"sampleSize"`
	Advertisements []Advertisement `json:"advertisements"`
	FilterInfo     FilterInfo      `json:"filterInfo"`
}

// PriceBand Значения по трём базисам
type PriceBand struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

// PricePoint Одна точка прогнозной кривой
type PricePoint struct {
	// DayOffset 0 — день снимка
	DayOffset int `json:"dayOffset"`

	// Date Дата точки, RFC 3339
	Date string `json:"date"`

	Prices PriceBand `json:"prices"`

	// Changes Изменение к дню 0 в процентах
	Changes PriceBand `json:"changes"`

	// Label Пометка дня ("Current price", "Best day to sell", ...)
	Label string `json:"label,omitempty"`
}

// ProjectionRequest What-if расчёт прогноза по объявлениям вызывающего
type ProjectionRequest struct {
	// Basis Базис рекомендации, по умолчанию avg
	Basis string `json:"basis" validate:"omitempty,oneof=min avg max"`

	// From Начало окна дат, YYYY-MM-DD
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`

	// To Конец окна дат, YYYY-MM-DD
	To string `json:"to" validate:"omitempty,datetime=2006-01-02"`

	Advertisements []Advertisement `json:"advertisements" validate:"required,min=1,dive"`
}

// Projection Прогноз поверх текущего снимка
type Projection struct {
	TradeType        string    `json:"tradeType"`
	Basis            string    `json:"basis"`
	Trend            string    `json:"trend"`
	CurrentPrices    PriceBand `json:"currentPrices"`
	ProjectedPrices  PriceBand `json:"projectedPrices"`
	ProjectedChanges PriceBand `json:"projectedChanges"`
	Recommendation   string    `json:"recommendation"`
	BestTime         string    `json:"bestTime"`

	// PricePoints Точки выбранного окна (по умолчанию дни 0..7)
	PricePoints []PricePoint `json:"pricePoints"`

	// WindowNote Информационная пометка про фильтр дат
	WindowNote string `json:"windowNote,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
