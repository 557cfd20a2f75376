// Package coinmarketcap implements the crypto price source against the
// CoinMarketCap Pro API.
package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"moneta/internal/domain/asset"
)

const (
	baseURL        = "https://pro-api.coinmarketcap.com"
	defaultTimeout = 30 * time.Second
	mapPath        = "/v1/cryptocurrency/map"
	quotesPath     = "/v2/cryptocurrency/quotes/latest"
)

// Client handles communication with the CoinMarketCap API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new CoinMarketCap API client.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// mapResponse represents the API response for the cryptocurrency map endpoint.
type mapResponse struct {
	Status statusBlock `json:"status"`
	Data   []mapEntry  `json:"data"`
}

type mapEntry struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// quotesResponse represents the API response for the latest-quotes endpoint.
type quotesResponse struct {
	Status statusBlock                `json:"status"`
	Data   map[string]quotesDataEntry `json:"data"`
}

type quotesDataEntry struct {
	Quote map[string]quoteEntry `json:"quote"`
}

type quoteEntry struct {
	Price       float64   `json:"price"`
	LastUpdated time.Time `json:"last_updated"`
}

type statusBlock struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// Search finds cryptocurrencies whose symbol matches the query.
func (c *Client) Search(ctx context.Context, query string) ([]asset.SearchResult, error) {
	params := url.Values{}
	params.Set("symbol", query)
	params.Set("listing_status", "active")

	var mr mapResponse
	if err := c.get(ctx, mapPath, params, &mr); err != nil {
		return nil, err
	}
	if mr.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("API error %d: %s", mr.Status.ErrorCode, mr.Status.ErrorMessage)
	}

	results := make([]asset.SearchResult, 0, len(mr.Data))
	for _, entry := range mr.Data {
		results = append(results, asset.SearchResult{
			AssetID: fmt.Sprintf("%d", entry.ID),
			Symbol:  entry.Symbol,
			Name:    entry.Name,
		})
	}
	return results, nil
}

// Price returns the latest quote for the asset converted to the given
// currency. assetID is the CoinMarketCap numeric id stored on the asset.
func (c *Client) Price(ctx context.Context, assetID, currency string) (*asset.Quote, error) {
	params := url.Values{}
	params.Set("id", assetID)
	params.Set("convert", currency)

	var qr quotesResponse
	if err := c.get(ctx, quotesPath, params, &qr); err != nil {
		return nil, err
	}
	if qr.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("API error %d: %s", qr.Status.ErrorCode, qr.Status.ErrorMessage)
	}

	entry, ok := qr.Data[assetID]
	if !ok {
		return nil, asset.ErrPriceUnavailable
	}
	quote, ok := entry.Quote[currency]
	if !ok {
		return nil, asset.ErrPriceUnavailable
	}

	return &asset.Quote{
		Price:    quote.Price,
		Date:     quote.LastUpdated,
		Currency: currency,
	}, nil
}
