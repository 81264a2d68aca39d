package recordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

const (
	defaultTimeout      = 10 * time.Second
	maxErrorBody        = 4 << 10
	consecutiveFailures = 5
)

// ErrUnavailable is returned while the circuit breaker is open
var ErrUnavailable = errors.New("record store unavailable")

// Client is a RecordStore speaking JSON over HTTP to a remote record service.
// Transport failures and 5xx answers trip a circuit breaker; 4xx answers are
// returned as unsuccessful responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

var _ providers.RecordStore = (*Client)(nil)

// NewClient creates a record service client
func NewClient(cfg *config.RecordAPIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return newClient(cfg.URL, &http.Client{Timeout: timeout}, 30*time.Second)
}

func newClient(baseURL string, httpClient *http.Client, openTimeout time.Duration) *Client {
	logger := observability.GetLogger()
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "recordapi",
			MaxRequests: 1,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= consecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			},
		}),
	}
}

// Query runs a record query
func (c *Client) Query(ctx context.Context, query providers.RecordQuery) (*providers.RecordResponse, error) {
	return c.do(ctx, "query", http.MethodPost, "/records/query", query)
}

// Get fetches one record
func (c *Client) Get(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	return c.do(ctx, "get", http.MethodGet, recordPath(id), nil)
}

// Create stores a new record
func (c *Client) Create(ctx context.Context, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	return c.do(ctx, "create", http.MethodPost, "/records", record)
}

// Update replaces a record
func (c *Client) Update(ctx context.Context, id int64, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	return c.do(ctx, "update", http.MethodPut, recordPath(id), record)
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	return c.do(ctx, "delete", http.MethodDelete, recordPath(id), nil)
}

func recordPath(id int64) string {
	return "/records/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}) (*providers.RecordResponse, error) {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, "remote", op, time.Since(start)) }()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doJSON(ctx, method, c.baseURL+path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return result.(*providers.RecordResponse), nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload interface{}) (*providers.RecordResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("record api request failed: %w", err)
	}
	defer resp.Body.Close()

	// a missing record is an absent value, not a refusal
	if resp.StatusCode == http.StatusNotFound && strings.Contains(endpoint, "/records/") && method != http.MethodPost {
		return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{}}, nil
	}
	if resp.StatusCode >= 500 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("record api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	out := &providers.RecordResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode >= 300 {
			return &providers.RecordResponse{Message: fmt.Sprintf("record api returned status %d", resp.StatusCode)}, nil
		}
		return nil, fmt.Errorf("failed to decode record api response: %w", err)
	}
	if resp.StatusCode >= 300 && out.Success {
		out.Success = false
	}
	if !out.Success && out.Message == "" {
		out.Message = fmt.Sprintf("record api returned status %d", resp.StatusCode)
	}
	return out, nil
}
