package sources

import (
	"context"
	"fmt"
	"strconv"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	xhttp "TokenRadar/pkg/http"
)

// CoinGecko fetches the top markets page. It is the only source that knows
// max supply; its best listing-date proxy is the all-time-high date.
type CoinGecko struct {
	url     string
	perPage int
	client  *xhttp.Client
}

// NewCoinGecko creates the CoinGecko REST adapter.
func NewCoinGecko(url string, perPage int, client *xhttp.Client) drepo.SourceAdapter {
	if perPage <= 0 {
		perPage = 50
	}
	return &CoinGecko{url: url, perPage: perPage, client: client}
}

func (g *CoinGecko) ID() string { return "coingecko" }

type geckoMarket struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
	MaxSupply    *float64 `json:"max_supply"`
	ATHDate      string   `json:"ath_date"`
	LastUpdated  string   `json:"last_updated"`
}

func (g *CoinGecko) Fetch(ctx context.Context) ([]models.RawObservation, error) {
	var markets []geckoMarket
	err := g.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    g.url,
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"order":       {"market_cap_desc"},
			"per_page":    {strconv.Itoa(g.perPage)},
			"page":        {"1"},
		},
	}, &markets)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}

	raws := make([]models.RawObservation, 0, len(markets))
	for _, m := range markets {
		listed := m.ATHDate
		if listed == "" {
			listed = m.LastUpdated
		}
		raws = append(raws, models.RawObservation{
			Symbol: m.Symbol,
			Name:   m.Name,
			Price:  formatFloat(m.CurrentPrice),
			Change: formatFloat(m.Change24h),
			Supply: formatFloat(m.MaxSupply),
			Listed: listed,
		})
	}
	return raws, nil
}

// formatFloat renders an optional JSON number; nil stays absent.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
