package entity

// Advertisement — одно объявление маркетплейса, уже нормализованное.
// Значение неизменяемо после конструирования.
type Advertisement struct {
	AdvertiserID        string   `json:"advertiserId"`
	AdvertiserName      string   `json:"advertiserName"`
	Price               float64  `json:"price"`
	AvailableAmount     float64  `json:"availableAmount"`
	MinLimit            float64  `json:"minLimit"`
	MaxLimit            float64  `json:"maxLimit"`
	MonthOrderCount     int      `json:"monthOrderCount"`
	MonthCompletionRate float64  `json:"monthCompletionRate"`
	IsVerified          bool     `json:"isVerified"`
	PaymentMethods      []string `json:"paymentMethods"`
}

// MinLimitInAsset — нижний лимит транзакции в единицах актива.
func (a Advertisement) MinLimitInAsset() float64 {
	return a.MinLimit / a.Price
}

// MaxLimitInAsset — верхний лимит транзакции в единицах актива.
func (a Advertisement) MaxLimitInAsset() float64 {
	return a.MaxLimit / a.Price
}
