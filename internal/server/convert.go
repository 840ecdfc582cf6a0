package server

import (
	"math"
	"strconv"
	"time"

	"github.com/samber/lo"

	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/rest"
)

// Денежные значения округляются до двух знаков только здесь, на выдаче.
// Внутри домена всё считается с полной точностью.

func newRESTMarketSnapshot(snapshot entity.MarketSnapshot) rest.MarketSnapshot {
	ws := snapshot.WorkingSet

	return rest.MarketSnapshot{
		Timestamp:      snapshot.Timestamp.Format(time.RFC3339),
		TradeType:      snapshot.Direction.String(),
		PriceStats:     newRESTPriceStats(snapshot.Statistics),
		SampleSize:     ws.Size(),
		Advertisements: lo.Map(ws.Advertisements, func(ad entity.Advertisement, _ int) rest.Advertisement {
			return newRESTAdvertisement(ad)
		}),
		FilterInfo: rest.FilterInfo{
			MinOrders:     ws.MinExperienceThreshold,
			TotalCount:    ws.Size(),
			VerifiedCount: snapshot.Statistics.VerifiedCount,
			UsingAllAds:   ws.UsedFallback,
			TotalAdsFound: ws.DeduplicatedCount,
		},
	}
}

func newRESTStatistics(snapshot entity.MarketSnapshot) rest.Statistics {
	return rest.Statistics{
		Timestamp:     snapshot.Timestamp.Format(time.RFC3339),
		TradeType:     snapshot.Direction.String(),
		PriceStats:    newRESTPriceStats(snapshot.Statistics),
		VerifiedCount: snapshot.Statistics.VerifiedCount,
		SampleSize:    snapshot.WorkingSet.Size(),
	}
}

func newRESTPriceStats(stats entity.Statistics) rest.PriceStats {
	return rest.PriceStats{
		Min:    formatMoney(stats.Min),
		Max:    formatMoney(stats.Max),
		Spread: formatMoney(stats.Spread),
	}
}

func newRESTAdvertisement(ad entity.Advertisement) rest.Advertisement {
	return rest.Advertisement{
		Advertiser: rest.Advertiser{
			ID:                  ad.AdvertiserID,
			Name:                ad.AdvertiserName,
			MonthOrderCount:     ad.MonthOrderCount,
			MonthCompletionRate: ad.MonthCompletionRate,
			IsVerified:          ad.IsVerified,
		},
		Price:     round2(ad.Price),
		Available: round2(ad.AvailableAmount),
		Limits: rest.Limits{
			Min:        round2(ad.MinLimit),
			Max:        round2(ad.MaxLimit),
			MinInAsset: round2(ad.MinLimitInAsset()),
			MaxInAsset: round2(ad.MaxLimitInAsset()),
		},
		PayMethods: ad.PaymentMethods,
	}
}

func newRESTProjection(projection entity.Projection) rest.Projection {
	return rest.Projection{
		TradeType:        projection.Direction.String(),
		Basis:            projection.Basis.String(),
		Trend:            projection.Trend.String(),
		CurrentPrices:    newRESTPriceBand(projection.CurrentPrices),
		ProjectedPrices:  newRESTPriceBand(projection.ProjectedPrices),
		ProjectedChanges: rawRESTPriceBand(projection.ProjectedChanges),
		Recommendation:   projection.Recommendation,
		BestTime:         projection.BestTime,
		PricePoints: lo.Map(projection.Window, func(p entity.PricePoint, _ int) rest.PricePoint {
			return newRESTPricePoint(p)
		}),
		WindowNote: projection.WindowNote,
	}
}

func newRESTPricePoint(point entity.PricePoint) rest.PricePoint {
	return rest.PricePoint{
		DayOffset: point.DayOffset,
		Date:      point.Date.Format(time.RFC3339),
		Prices:    newRESTPriceBand(point.Prices),
		Changes:   rawRESTPriceBand(point.Changes),
		Label:     point.Label,
	}
}

// rawRESTPriceBand — для немонетарных полос (доли и проценты изменения),
// которые округлять нельзя.
func rawRESTPriceBand(band entity.PriceBand) rest.PriceBand {
	return rest.PriceBand(band)
}

func newRESTPriceBand(band entity.PriceBand) rest.PriceBand {
	return rest.PriceBand{
		Min: round2(band.Min),
		Avg: round2(band.Avg),
		Max: round2(band.Max),
	}
}

func newDomainAdvertisements(ads []rest.Advertisement) []entity.Advertisement {
	return lo.Map(ads, func(ad rest.Advertisement, _ int) entity.Advertisement {
		return entity.Advertisement{
			AdvertiserID:        ad.Advertiser.ID,
			AdvertiserName:      ad.Advertiser.Name,
			Price:               ad.Price,
			AvailableAmount:     ad.Available,
			MinLimit:            ad.Limits.Min,
			MaxLimit:            ad.Limits.Max,
			MonthOrderCount:     ad.Advertiser.MonthOrderCount,
			MonthCompletionRate: ad.Advertiser.MonthCompletionRate,
			IsVerified:          ad.Advertiser.IsVerified,
			PaymentMethods:      ad.PayMethods,
		}
	})
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
