package binance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"

	"p2p_market/internal/config"
	"p2p_market/internal/domain"
	"p2p_market/internal/domain/entity"
	"p2p_market/pkg/contextx"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const searchPath = "/bapi/c2c/v2/friendly/c2c/adv/search"

// searchRequest — payload поиска объявлений, повторяет запрос браузера.
type searchRequest struct {
	Asset          string   `json:"asset"`
	Countries      []string `json:"countries"`
	Fiat           string   `json:"fiat"`
	Page           int      `json:"page"`
	PayTypes       []string `json:"payTypes"`
	ProMerchantAds bool     `json:"proMerchantAds"`
	PublisherType  *string  `json:"publisherType"`
	Rows           int      `json:"rows"`
	TradeType      string   `json:"tradeType"`
	TransAmount    string   `json:"transAmount"`
}

type Client struct {
	cfg        config.Binance
	httpClient *http.Client
}

func NewClient(cfg config.Binance, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// FetchAdvertisements обходит страницы поиска и возвращает нормализованные
// объявления. Ошибка отдельной страницы не прерывает обход — страница
// пропускается. Пустая или короткая страница заканчивает пагинацию.
func (c *Client) FetchAdvertisements(ctx context.Context, direction entity.TradeDirection) ([]entity.Advertisement, error) {
	var raw []rawAdvert

	for page := 1; page <= c.cfg.MaxPages; page++ {
		if page > 1 {
			// Пауза между страницами, чтобы не упереться в rate limit.
			select {
			case <-time.After(c.cfg.PageDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		pageAds, err := c.fetchPage(ctx, direction, page)
		if err != nil {
			logger(ctx).Warn("binance page fetch failed",
				slog.Int("page", page),
				slog.String("trade-direction", direction.String()),
				logx.Error(err),
			)

			continue
		}

		fetchedPages.WithLabelValues(direction.String()).Inc()

		if len(pageAds) == 0 {
			break
		}

		raw = append(raw, pageAds...)

		if len(pageAds) < c.cfg.PageSize {
			break
		}
	}

	if len(raw) == 0 {
		return nil, domain.NewError(errcodes.MarketUnavailable, "marketplace returned no advertisements")
	}

	return c.normalize(ctx, raw), nil
}

func (c *Client) fetchPage(ctx context.Context, direction entity.TradeDirection, page int) ([]rawAdvert, error) {
	payload := searchRequest{
		Asset:          c.cfg.Asset,
		Countries:      []string{},
		Fiat:           c.cfg.Fiat,
		Page:           page,
		PayTypes:       []string{},
		ProMerchantAds: false,
		PublisherType:  nil,
		Rows:           c.cfg.PageSize,
		TradeType:      strings.ToUpper(direction.String()),
		TransAmount:    "",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var response searchResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return response.Data, nil
}

// setHeaders выставляет браузероподобные заголовки — без них поисковая ручка
// отвечает пустотой.
func (c *Client) setHeaders(req *http.Request) {
	id := xid.New().String()

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.cfg.BaseURL)
	req.Header.Set("Referer", c.cfg.BaseURL+"/es/trade/all-payments/"+c.cfg.Asset+"?fiat="+c.cfg.Fiat)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Client-Type", "web")
	req.Header.Set("Bnc-Uuid", "0c7c508e-"+id[len(id)-8:])
	req.Header.Set("X-Trace-Id", id)
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36")
}

// normalize прогоняет сырые записи через toDomain; битые записи пишутся в
// debug-лог и выбрасываются, наружу ошибка не поднимается.
func (c *Client) normalize(ctx context.Context, raw []rawAdvert) []entity.Advertisement {
	ads := make([]entity.Advertisement, 0, len(raw))

	for _, r := range raw {
		ad, err := r.toDomain()
		if err != nil {
			droppedRecords.Inc()

			logger(ctx).Debug("malformed record dropped",
				slog.String("advertiser", r.Advertiser.UserNo),
				logx.Error(err),
			)

			continue
		}

		ads = append(ads, ad)
	}

	return ads
}
