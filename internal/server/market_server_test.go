package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/internal/server"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/rest"
	"p2p_market/pkg/tests"
)

type stubMarket struct {
	snapshot entity.MarketSnapshot
	err      error

	refreshed  int
	gotWhatIfs []entity.Advertisement
}

func (m *stubMarket) Snapshot(_ context.Context, _ entity.TradeDirection) (entity.MarketSnapshot, error) {
	return m.snapshot, m.err
}

func (m *stubMarket) Refresh(_ context.Context, _ entity.TradeDirection) (entity.MarketSnapshot, error) {
	m.refreshed++
	return m.snapshot, m.err
}

func (m *stubMarket) WorkingSetFrom(ads []entity.Advertisement) (entity.WorkingSet, error) {
	m.gotWhatIfs = ads

	if m.err != nil {
		return entity.WorkingSet{}, m.err
	}

	return entity.WorkingSet{Advertisements: ads}, nil
}

type stubEngine struct {
	projection entity.Projection
	err        error

	gotBasis entity.PriceBasis
	gotRange *entity.DateRange
}

func (e *stubEngine) Compute(
	_ entity.WorkingSet,
	_ entity.TradeDirection,
	basis entity.PriceBasis,
	dateRange *entity.DateRange,
) (entity.Projection, error) {
	e.gotBasis = basis
	e.gotRange = dateRange

	return e.projection, e.err
}

func testSnapshot() entity.MarketSnapshot {
	return entity.MarketSnapshot{
		Timestamp: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Direction: entity.TradeSell,
		WorkingSet: entity.WorkingSet{
			Advertisements: []entity.Advertisement{
				{
					AdvertiserID:    "a",
					AdvertiserName:  "trader-a",
					Price:           6.954,
					AvailableAmount: 150,
					MinLimit:        70,
					MaxLimit:        5000,
					MonthOrderCount: 600,
					IsVerified:      true,
					PaymentMethods:  []string{"BankTransfer"},
				},
			},
			MinExperienceThreshold: 500,
			DeduplicatedCount:      3,
		},
		Statistics: entity.Statistics{Min: 6.954, Max: 6.954, VerifiedCount: 1},
	}
}

func newTestClient(t *testing.T, market *stubMarket, engine *stubEngine) tests.APIClient {
	t.Helper()

	router := chi.NewRouter()
	server.NewServer(server.NewMarketServer(market, engine)).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func TestGetMarket(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, &stubEngine{})

	var got rest.MarketSnapshot

	resp, err := client.Get(context.Background(), "/v1/market/sell", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal("sell", got.TradeType)
	rq.Equal(1, got.SampleSize)
	rq.Equal("6.95", got.PriceStats.Min)
	rq.Equal(3, got.FilterInfo.TotalAdsFound)
	rq.Equal(500, got.FilterInfo.MinOrders)
	rq.Len(got.Advertisements, 1)
	rq.InDelta(6.95, got.Advertisements[0].Price, 1e-9)
}

func TestGetMarketInvalidSide(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, &stubEngine{})

	var gotErr rest.Error

	resp, err := client.Get(context.Background(), "/v1/market/steal", nil, nil, &gotErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidTradeSide.String()), gotErr.Code)
}

func TestGetMarketInsufficientData(t *testing.T) {
	rq := require.New(t)

	market := &stubMarket{err: domain.NewError(errcodes.InsufficientData, "no advertisements")}
	client := newTestClient(t, market, &stubEngine{})

	resp, err := client.Get(context.Background(), "/v1/market/sell", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetStatistics(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, &stubEngine{})

	var got rest.Statistics

	resp, err := client.Get(context.Background(), "/v1/market/sell/statistics", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("0.00", got.PriceStats.Spread)
	rq.Equal(1, got.VerifiedCount)
	rq.Equal(1, got.SampleSize)
}

func TestGetProjection(t *testing.T) {
	rq := require.New(t)

	engine := &stubEngine{
		projection: entity.Projection{
			Direction: entity.TradeSell,
			Basis:     entity.BasisMin,
			Trend:     entity.TrendUp,
			Window: []entity.PricePoint{
				{DayOffset: 0, Date: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), Label: "Current price"},
			},
		},
	}

	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, engine)

	var got rest.Projection

	resp, err := client.Get(
		context.Background(),
		"/v1/market/sell/projection?basis=min&from=2026-09-01&to=2026-09-05",
		nil, &got, nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal(entity.BasisMin, engine.gotBasis)
	rq.NotNil(engine.gotRange)
	rq.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), engine.gotRange.From)
	rq.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), engine.gotRange.To)

	rq.Equal("up", got.Trend)
	rq.Len(got.PricePoints, 1)
	rq.Equal("Current price", got.PricePoints[0].Label)
}

func TestGetProjectionDefaultBasis(t *testing.T) {
	rq := require.New(t)

	engine := &stubEngine{}
	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, engine)

	resp, err := client.Get(context.Background(), "/v1/market/buy/projection", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(entity.BasisAvg, engine.gotBasis)
	rq.Nil(engine.gotRange)
}

func TestGetProjectionInvalidBasis(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, &stubMarket{snapshot: testSnapshot()}, &stubEngine{})

	resp, err := client.Get(context.Background(), "/v1/market/sell/projection?basis=median", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestPostProjectionWhatIf(t *testing.T) {
	rq := require.New(t)

	market := &stubMarket{}
	engine := &stubEngine{projection: entity.Projection{Trend: entity.TrendStable}}
	client := newTestClient(t, market, engine)

	request := rest.ProjectionRequest{
		Basis: "max",
		Advertisements: []rest.Advertisement{
			{
				Advertiser: rest.Advertiser{ID: "a", Name: "trader-a", MonthOrderCount: 600},
				Price:      6.95,
				Available:  150,
				Limits:     rest.Limits{Min: 70, Max: 5000},
				PayMethods: []string{"BankTransfer"},
			},
		},
	}

	var got rest.Projection

	resp, err := client.Post(context.Background(), "/v1/market/sell/projection", nil, request, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal(entity.BasisMax, engine.gotBasis)
	rq.Len(market.gotWhatIfs, 1)
	rq.Equal("a", market.gotWhatIfs[0].AdvertiserID)
	rq.InDelta(6.95, market.gotWhatIfs[0].Price, 1e-9)
	rq.Equal("stable", got.Trend)
}

func TestPostProjectionValidation(t *testing.T) {
	client := newTestClient(t, &stubMarket{}, &stubEngine{})

	testCases := []struct {
		name    string
		request rest.ProjectionRequest
	}{
		{
			name:    "empty advertisement list",
			request: rest.ProjectionRequest{},
		},
		{
			name: "non-positive price",
			request: rest.ProjectionRequest{
				Advertisements: []rest.Advertisement{{Price: 0}},
			},
		},
		{
			name: "malformed date",
			request: rest.ProjectionRequest{
				From: "September 3rd",
				Advertisements: []rest.Advertisement{{Price: 6.95}},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			var gotErr rest.Error

			resp, err := client.Post(context.Background(), "/v1/market/sell/projection", nil, tc.request, nil, &gotErr)
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, rest.ErrorCode(errcodes.ValidationError.String()), gotErr.Code)
		})
	}
}

func TestPostRefresh(t *testing.T) {
	rq := require.New(t)

	market := &stubMarket{snapshot: testSnapshot()}
	client := newTestClient(t, market, &stubEngine{})

	resp, err := client.Post(context.Background(), "/v1/market/sell/refresh", nil, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(1, market.refreshed)
}
