package binance

import (
	"math"
	"strconv"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/lox"
)

// searchResponse — ответ ручки /bapi/c2c/v2/friendly/c2c/adv/search.
type searchResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    []rawAdvert `json:"data"`
	Total   int         `json:"total"`
}

// rawAdvert — сырое объявление в том виде, как его отдаёт маркетплейс:
// числа приходят строками, поля могут отсутствовать.
type rawAdvert struct {
	Adv        rawAdv        `json:"adv"`
	Advertiser rawAdvertiser `json:"advertiser"`
}

type rawAdv struct {
	Price                string           `json:"price"`
	SurplusAmount        string           `json:"surplusAmount"`
	MinSingleTransAmount string           `json:"minSingleTransAmount"`
	MaxSingleTransAmount string           `json:"maxSingleTransAmount"`
	TradeMethods         []rawTradeMethod `json:"tradeMethods"`
}

type rawTradeMethod struct {
	PayType string `json:"payType"`
}

type rawAdvertiser struct {
	NickName        string  `json:"nickName"`
	UserNo          string  `json:"userNo"`
	MonthOrderCount int     `json:"monthOrderCount"`
	MonthFinishRate float64 `json:"monthFinishRate"`
	ProMerchant     bool    `json:"proMerchant"`
	UserType        string  `json:"userType"`
}

// toDomain нормализует сырую запись. Любая ошибка разбора числовых полей
// отбрасывает запись целиком — мусор не должен попасть в рабочий набор.
func (r rawAdvert) toDomain() (entity.Advertisement, error) {
	price, err := parseAmount(r.Adv.Price)
	if err != nil {
		return entity.Advertisement{}, domain.WrapError(err, errcodes.MalformedRecord, "bad price")
	}

	if price <= 0 {
		return entity.Advertisement{}, domain.WrapError(errNonPositivePrice, errcodes.MalformedRecord, "bad price")
	}

	available, err := parseAmount(r.Adv.SurplusAmount)
	if err != nil {
		return entity.Advertisement{}, domain.WrapError(err, errcodes.MalformedRecord, "bad surplus amount")
	}

	minLimit, err := parseAmount(r.Adv.MinSingleTransAmount)
	if err != nil {
		return entity.Advertisement{}, domain.WrapError(err, errcodes.MalformedRecord, "bad min limit")
	}

	maxLimit, err := parseAmount(r.Adv.MaxSingleTransAmount)
	if err != nil {
		return entity.Advertisement{}, domain.WrapError(err, errcodes.MalformedRecord, "bad max limit")
	}

	return entity.Advertisement{
		AdvertiserID:        r.Advertiser.UserNo,
		AdvertiserName:      r.Advertiser.NickName,
		Price:               price,
		AvailableAmount:     available,
		MinLimit:            minLimit,
		MaxLimit:            maxLimit,
		MonthOrderCount:     r.Advertiser.MonthOrderCount,
		MonthCompletionRate: r.Advertiser.MonthFinishRate,
		IsVerified:          r.Advertiser.ProMerchant,
		PaymentMethods: lox.Map(r.Adv.TradeMethods, func(m rawTradeMethod) string {
			return m.PayType
		}),
	}, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFiniteAmount
	}

	return v, nil
}
