package sources

import (
	"context"
	"fmt"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	xhttp "TokenRadar/pkg/http"
)

// Binance fetches the exchange-wide 24h ticker list. Binance gives neither
// supply nor listing dates, so those fields stay absent.
type Binance struct {
	url    string
	client *xhttp.Client
}

// NewBinance creates the Binance REST adapter.
func NewBinance(url string, client *xhttp.Client) drepo.SourceAdapter {
	return &Binance{url: url, client: client}
}

func (b *Binance) ID() string { return "binance" }

type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

func (b *Binance) Fetch(ctx context.Context) ([]models.RawObservation, error) {
	var tickers []binanceTicker
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    b.url,
	}, &tickers)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}

	raws := make([]models.RawObservation, 0, len(tickers))
	for _, t := range tickers {
		raws = append(raws, models.RawObservation{
			Symbol: t.Symbol,
			Price:  t.LastPrice,
			Change: t.PriceChangePercent,
		})
	}
	return raws, nil
}
