package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"market-view/src/logger"
	"market-view/src/models"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// APIClient implements interfaces.ISnapshotAPI against the dashboard backend
// REST surface. Responses are wrapped objects ({"orders": [...]}, etc.); the
// client unwraps them into model slices.
type APIClient struct {
	Name    string
	BaseURL string
	Logger  *logger.Logger
	client  *http.Client
}

// -----------------------------------------------------------------------------

// NewAPIClient creates a snapshot API client for the given base URL.
func NewAPIClient(baseURL string, timeout time.Duration, logger *logger.Logger, name string) *APIClient {
	return &APIClient{
		Name:    name,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// -----------------------------------------------------------------------------
// ISnapshotAPI IMPLEMENTATION
// -----------------------------------------------------------------------------

// FetchOpenOrders returns the full open order rows.
func (a *APIClient) FetchOpenOrders() ([]models.MOrder, error) {
	var resp struct {
		Orders []models.MOrder `json:"orders"`
	}
	if err := a.get("/orders/open", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}
	return resp.Orders, nil
}

// -----------------------------------------------------------------------------

// FetchRecentTrades returns up to limit trades, newest-first. The backend
// clamps limit to 100; we clamp here as well so the merge baseline never
// exceeds the display capacity.
func (a *APIClient) FetchRecentTrades(limit int) ([]models.MTradeRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var resp struct {
		Trades []models.MTradeRecord `json:"trades"`
	}
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if err := a.get("/trades/recent", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch recent trades: %w", err)
	}
	return resp.Trades, nil
}

// -----------------------------------------------------------------------------

// FetchTickers returns the ticker universe, sorted by symbol server-side.
func (a *APIClient) FetchTickers() ([]models.MTicker, error) {
	var resp struct {
		Tickers []models.MTicker `json:"tickers"`
	}
	if err := a.get("/tickers", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	return resp.Tickers, nil
}

// -----------------------------------------------------------------------------

// FetchPriceHistory returns up to limit samples for symbol, most-recent-last.
func (a *APIClient) FetchPriceHistory(symbol string, limit int) ([]models.MPriceTick, error) {
	if limit <= 0 {
		limit = 10
	}
	var resp struct {
		Symbol string             `json:"symbol"`
		Ticks  []models.MPriceTick `json:"ticks"`
	}
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if err := a.get("/prices/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", symbol, err)
	}
	return resp.Ticks, nil
}

// -----------------------------------------------------------------------------

// CreateOrder submits a new order and returns the created row.
func (a *APIClient) CreateOrder(req *models.MOrderRequest) (*models.MOrder, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("create order: marshal payload: %w", err)
	}

	httpResp, err := a.client.Post(a.BaseURL+"/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create order: bad status %d", httpResp.StatusCode)
	}

	var created models.MOrder
	if err := json.NewDecoder(httpResp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("create order: decode response: %w", err)
	}
	return &created, nil
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// get performs one GET and decodes the JSON body into out. No retries here:
// the view layer treats a failed snapshot as "keep showing prior state" and
// the next externally-triggered refresh is the only retry path.
func (a *APIClient) get(path string, params url.Values, out interface{}) error {
	reqURL := a.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := a.client.Get(reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
