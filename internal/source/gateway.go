package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/Psychedelic/xtc-audit/internal/codec"
	"github.com/Psychedelic/xtc-audit/internal/domain"
)

const defaultTimeout = 30 * time.Second

// GatewayClient talks to an HTTP gateway fronting the ledger canister:
//
//	GET /stats                    aggregate counters
//	GET /transactions/{index}     one event in durable JSON form, 404 if none
//	GET /balance[?account=text]   tagged big-int balance
//
// Transport and non-2xx failures surface as domain.ErrUpstreamUnavailable.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient creates a gateway client. timeout zero means the default.
func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GatewayClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type statsResponse struct {
	HistoryEvents  string `json:"history_events"`
	Balance        string `json:"balance"`
	Supply         string `json:"supply"`
	TransfersCount string `json:"transfers_count"`
	MintsCount     string `json:"mints_count"`
	BurnsCount     string `json:"burns_count"`
	ProxyCalls     string `json:"proxy_calls"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

// Stats implements HistorySource.
func (c *GatewayClient) Stats(ctx context.Context) (domain.Stats, error) {
	body, err := c.get(ctx, c.baseURL+"/stats")
	if err != nil {
		return domain.Stats{}, err
	}

	var raw statsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Stats{}, errors.Wrap(domain.ErrMalformedEvent, err.Error())
	}

	var stats domain.Stats
	if stats.HistoryEvents, err = parseCounter("history_events", raw.HistoryEvents); err != nil {
		return domain.Stats{}, err
	}
	if stats.Balance, err = domain.ParseAmount(raw.Balance); err != nil {
		return domain.Stats{}, errors.Wrap(err, "stats: balance")
	}
	if stats.Supply, err = domain.ParseAmount(raw.Supply); err != nil {
		return domain.Stats{}, errors.Wrap(err, "stats: supply")
	}
	if stats.TransfersCount, err = parseCounter("transfers_count", raw.TransfersCount); err != nil {
		return domain.Stats{}, err
	}
	if stats.MintsCount, err = parseCounter("mints_count", raw.MintsCount); err != nil {
		return domain.Stats{}, err
	}
	if stats.BurnsCount, err = parseCounter("burns_count", raw.BurnsCount); err != nil {
		return domain.Stats{}, err
	}
	if stats.ProxyCalls, err = parseCounter("proxy_calls", raw.ProxyCalls); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// GetTransaction implements HistorySource. A 404 maps to (nil, nil): the
// remote has no event at that index and the caller decides whether that is
// a gap.
func (c *GatewayClient) GetTransaction(ctx context.Context, index uint64) (*domain.Transaction, error) {
	body, err := c.getAllowMissing(ctx, fmt.Sprintf("%s/transactions/%d", c.baseURL, index))
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return codec.Decode(index, body)
}

// Balance implements HistorySource.
func (c *GatewayClient) Balance(ctx context.Context, id *domain.Identity) (*big.Int, error) {
	endpoint := c.baseURL + "/balance"
	if id != nil {
		endpoint += "?account=" + url.QueryEscape(id.Text())
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var raw balanceResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(domain.ErrMalformedEvent, err.Error())
	}
	balance, err := domain.ParseAmount(raw.Balance)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	return balance, nil
}

func (c *GatewayClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := c.getAllowMissing(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "GET %s: not found", endpoint)
	}
	return body, nil
}

func (c *GatewayClient) getAllowMissing(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "GET %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "GET %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "GET %s: read body: %v", endpoint, err)
	}
	return body, nil
}

func parseCounter(field, text string) (uint64, error) {
	v, err := domain.ParseAmount(text)
	if err != nil {
		return 0, errors.Wrapf(err, "stats: %s", field)
	}
	if !v.IsUint64() {
		return 0, errors.Wrapf(domain.ErrMalformedEvent, "stats: %s %q exceeds uint64", field, text)
	}
	return v.Uint64(), nil
}
