package binance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/config"
	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/infrastructure/binance"
	"p2p_market/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func testConfig(baseURL string) config.Binance {
	return config.Binance{
		BaseURL:        baseURL,
		Asset:          "USDT",
		Fiat:           "BOB",
		MaxPages:       3,
		PageSize:       2,
		PageDelay:      time.Millisecond,
		RequestTimeout: time.Second,
	}
}

type searchRequest struct {
	Page      int    `json:"page"`
	Rows      int    `json:"rows"`
	TradeType string `json:"tradeType"`
	Asset     string `json:"asset"`
	Fiat      string `json:"fiat"`
}

func rawAd(userNo string, price string, orders int) map[string]any {
	return map[string]any{
		"adv": map[string]any{
			"price":                price,
			"surplusAmount":        "150.5",
			"minSingleTransAmount": "70",
			"maxSingleTransAmount": "5000",
			"tradeMethods":         []map[string]any{{"payType": "BankTransfer"}},
		},
		"advertiser": map[string]any{
			"nickName":        "trader-" + userNo,
			"userNo":          userNo,
			"monthOrderCount": orders,
			"monthFinishRate": 0.98,
			"proMerchant":     true,
		},
	}
}

func searchServer(t *testing.T, pages map[int][]map[string]any) (*httptest.Server, *[]searchRequest) {
	t.Helper()

	var requests []searchRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"code": "000000",
			"data": pages[req.Page],
		}))
	}))

	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestFetchAdvertisementsPagination(t *testing.T) {
	rq := require.New(t)

	srv, requests := searchServer(t, map[int][]map[string]any{
		1: {rawAd("a", "6.95", 600), rawAd("b", "6.97", 700)},
		2: {rawAd("c", "7.01", 800)}, // короткая страница заканчивает обход
	})

	client := binance.NewClient(testConfig(srv.URL), srv.Client())

	ads, err := client.FetchAdvertisements(context.Background(), entity.TradeSell)
	rq.NoError(err)
	rq.Len(ads, 3)

	rq.Equal(entity.Advertisement{
		AdvertiserID:        "a",
		AdvertiserName:      "trader-a",
		Price:               6.95,
		AvailableAmount:     150.5,
		MinLimit:            70,
		MaxLimit:            5000,
		MonthOrderCount:     600,
		MonthCompletionRate: 0.98,
		IsVerified:          true,
		PaymentMethods:      []string{"BankTransfer"},
	}, ads[0])

	rq.Len(*requests, 2)
	rq.Equal("SELL", (*requests)[0].TradeType)
	rq.Equal("USDT", (*requests)[0].Asset)
	rq.Equal("BOB", (*requests)[0].Fiat)
	rq.Equal(2, (*requests)[0].Rows)
}

func TestFetchAdvertisementsDropsMalformedRecords(t *testing.T) {
	rq := require.New(t)

	srv, _ := searchServer(t, map[int][]map[string]any{
		1: {rawAd("a", "garbage", 600), rawAd("b", "-5", 700)},
		2: {rawAd("c", "6.95", 800)},
	})

	client := binance.NewClient(testConfig(srv.URL), srv.Client())

	ads, err := client.FetchAdvertisements(context.Background(), entity.TradeBuy)
	rq.NoError(err)
	rq.Len(ads, 1, "unparseable and non-positive prices must be dropped")
	rq.Equal("c", ads[0].AdvertiserID)
}

func TestFetchAdvertisementsSkipsFailedPage(t *testing.T) {
	rq := require.New(t)

	var page int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++

		if page == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"code": "000000",
			"data": []map[string]any{rawAd("a", "6.95", 600)},
		}))
	}))
	t.Cleanup(srv.Close)

	client := binance.NewClient(testConfig(srv.URL), srv.Client())

	ads, err := client.FetchAdvertisements(context.Background(), entity.TradeSell)
	rq.NoError(err)
	rq.Len(ads, 1, "a failed page must be skipped, not fatal")
}

func TestFetchAdvertisementsEmptyMarket(t *testing.T) {
	rq := require.New(t)

	srv, _ := searchServer(t, map[int][]map[string]any{})

	client := binance.NewClient(testConfig(srv.URL), srv.Client())

	_, err := client.FetchAdvertisements(context.Background(), entity.TradeSell)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.MarketUnavailable, code)
}
