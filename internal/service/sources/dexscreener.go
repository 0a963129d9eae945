package sources

import (
	"context"
	"fmt"
	"strconv"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	xhttp "TokenRadar/pkg/http"
)

// Dexscreener looks up on-chain pairs for a configured token address list.
// Pair creation time arrives as unix milliseconds; supply is never provided.
type Dexscreener struct {
	url    string
	tokens []string
	client *xhttp.Client
}

// NewDexscreener creates the Dexscreener REST adapter.
func NewDexscreener(url string, tokens []string, client *xhttp.Client) drepo.SourceAdapter {
	return &Dexscreener{url: url, tokens: tokens, client: client}
}

func (d *Dexscreener) ID() string { return "dexscreener" }

type dexPair struct {
	BaseToken struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"baseToken"`
	PriceUSD    string `json:"priceUsd"`
	PriceChange struct {
		H24 *float64 `json:"h24"`
	} `json:"priceChange"`
	PairCreatedAt int64  `json:"pairCreatedAt"`
	URL           string `json:"url"`
}

type dexResponse struct {
	Pairs []dexPair `json:"pairs"`
}

func (d *Dexscreener) Fetch(ctx context.Context) ([]models.RawObservation, error) {
	var raws []models.RawObservation
	var lastErr error
	for _, token := range d.tokens {
		var resp dexResponse
		err := d.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    d.url + "/" + token,
		}, &resp)
		if err != nil {
			// one bad address must not sink the rest of the list
			lastErr = fmt.Errorf("dexscreener fetch %s: %w", token, err)
			continue
		}

		for _, p := range resp.Pairs {
			listed := ""
			if p.PairCreatedAt > 0 {
				listed = strconv.FormatInt(p.PairCreatedAt, 10)
			}
			raws = append(raws, models.RawObservation{
				Symbol: p.BaseToken.Symbol,
				Name:   p.BaseToken.Name,
				Price:  p.PriceUSD,
				Change: formatFloat(p.PriceChange.H24),
				Listed: listed,
				URL:    p.URL,
			})
		}
	}
	if len(raws) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return raws, nil
}
