package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	xhttp "TokenRadar/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","lastPrice":"65000.10","priceChangePercent":"-1.2"},
			{"symbol":"PEPEUSDT","lastPrice":"0.0000123","priceChangePercent":"15.4"}
		]`))
	}))
	defer srv.Close()

	adapter := NewBinance(srv.URL, xhttp.NewClient())
	raws, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "BTCUSDT", raws[0].Symbol)
	assert.Equal(t, "65000.10", raws[0].Price)
	assert.Equal(t, "-1.2", raws[0].Change)
	assert.Empty(t, raws[0].Supply, "binance has no supply data")
	assert.Empty(t, raws[0].Listed, "binance has no listing date")
}

func TestBinanceFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	adapter := NewBinance(srv.URL, xhttp.NewClient())
	_, err := adapter.Fetch(context.Background())
	assert.Error(t, err)
}

func TestCoinGeckoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "25", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"doge","name":"Dogecoin","current_price":0.15,
			 "price_change_percentage_24h":-3.5,"max_supply":null,
			 "ath_date":"2021-05-08T05:08:23.458Z","last_updated":"2025-06-15T00:00:00Z"},
			{"symbol":"newt","name":"Newt","current_price":0.002,
			 "price_change_percentage_24h":12.0,"max_supply":100000000,
			 "ath_date":"","last_updated":"2025-06-14T00:00:00Z"}
		]`))
	}))
	defer srv.Close()

	adapter := NewCoinGecko(srv.URL, 25, xhttp.NewClient())
	raws, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "doge", raws[0].Symbol)
	assert.Equal(t, "0.15", raws[0].Price)
	assert.Empty(t, raws[0].Supply, "null max_supply stays absent")
	assert.Equal(t, "2021-05-08T05:08:23.458Z", raws[0].Listed)

	assert.Equal(t, "100000000", raws[1].Supply)
	assert.Equal(t, "2025-06-14T00:00:00Z", raws[1].Listed, "last_updated backfills a missing ath_date")
}

func TestDexscreenerFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/0xgood":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"pairs":[
				{"baseToken":{"symbol":"WIF","name":"dogwifhat"},
				 "priceUsd":"0.004","priceChange":{"h24":42.0},
				 "pairCreatedAt":1718409600000,
				 "url":"https://dexscreener.com/solana/wif"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	adapter := NewDexscreener(srv.URL, []string{"0xbad", "0xgood"}, xhttp.NewClient())
	raws, err := adapter.Fetch(context.Background())
	require.NoError(t, err, "one failing address must not sink the batch")
	require.Len(t, raws, 1)

	assert.Equal(t, "WIF", raws[0].Symbol)
	assert.Equal(t, "0.004", raws[0].Price)
	assert.Equal(t, "42", raws[0].Change)
	assert.Equal(t, "1718409600000", raws[0].Listed)
	assert.Equal(t, "https://dexscreener.com/solana/wif", raws[0].URL)
}

func TestDexscreenerAllAddressesFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	adapter := NewDexscreener(srv.URL, []string{"0xa", "0xb"}, xhttp.NewClient())
	_, err := adapter.Fetch(context.Background())
	assert.Error(t, err)
}
