package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	gql "github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

// Config controls retry, de-duplication, and pacing behavior.
type Config struct {
	// MaxRetries is how many times a rate-limited request is retried.
	MaxRetries     int
	InitialBackoff time.Duration
	DebounceWindow time.Duration
	MinSpacing     time.Duration
	MaxJitter      time.Duration
	HTTPTimeout    time.Duration
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     5,
		InitialBackoff: time.Second,
		DebounceWindow: 2 * time.Second,
		MinSpacing:     250 * time.Millisecond,
		MaxJitter:      250 * time.Millisecond,
		HTTPTimeout:    30 * time.Second,
	}
}

// Request is one GraphQL operation against one endpoint. A nil MaxRetries and a
// zero InitialBackoff fall back to the client's Config.
type Request struct {
	Endpoint       string
	OperationName  string
	Query          string
	Variables      map[string]interface{}
	MaxRetries     *int
	InitialBackoff time.Duration
}

// Response holds the data member of a GraphQL answer and any GraphQL-level
// errors that accompanied it. Data is never empty; a missing data member is
// returned as {}. Responses may be shared between callers and must not be
// modified.
type Response struct {
	Data   json.RawMessage
	Errors gqlerror.List
}

// Client executes GraphQL requests with request de-duplication, per-endpoint
// pacing, and rate-limit aware retries. Safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	pacer  *Pacer
	cache  *RequestCache
	logger *zap.Logger
	jitter func(max time.Duration) time.Duration

	mu      sync.Mutex
	clients map[string]gql.Client
}

// NewClient builds a Client. A nil httpClient gets one with cfg.HTTPTimeout.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaults.InitialBackoff
	}
	if cfg.MinSpacing < 0 {
		cfg.MinSpacing = 0
	}
	if cfg.MaxJitter < 0 {
		cfg.MaxJitter = 0
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		pacer:   NewPacer(cfg.MinSpacing),
		cache:   NewRequestCache(cfg.DebounceWindow),
		logger:  logger,
		jitter:  randomJitter,
		clients: make(map[string]gql.Client),
	}
}

// Pacer exposes the client's per-endpoint pacing state.
func (c *Client) Pacer() *Pacer { return c.pacer }

// Fetch executes req. Identical requests (same endpoint, operation name, and
// variables) issued inside the debounce window share a single network call.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	if req.Endpoint == "" {
		return nil, fmt.Errorf("graphql endpoint is required")
	}
	if req.Query == "" {
		return nil, fmt.Errorf("graphql query is required")
	}

	key, err := requestKey(req)
	if err != nil {
		return nil, err
	}

	resp, err, shared := c.cache.Do(ctx, key, func(fetchCtx context.Context) (*Response, error) {
		return c.fetchWithRetry(fetchCtx, req)
	})
	if shared {
		c.logger.Debug("graphql request deduplicated",
			zap.String("endpoint", req.Endpoint),
			zap.String("operation", req.OperationName),
		)
	}
	return resp, err
}

// FetchGraphQL is Fetch with positional arguments and default retry settings.
func (c *Client) FetchGraphQL(ctx context.Context, endpoint, operationName, query string, variables map[string]interface{}) (*Response, error) {
	return c.Fetch(ctx, Request{
		Endpoint:      endpoint,
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	})
}

func (c *Client) fetchWithRetry(ctx context.Context, req Request) (*Response, error) {
	maxRetries := c.cfg.MaxRetries
	if req.MaxRetries != nil {
		maxRetries = max(*req.MaxRetries, 0)
	}
	backoff := req.InitialBackoff
	if backoff <= 0 {
		backoff = c.cfg.InitialBackoff
	}

	client := c.clientFor(req.Endpoint)
	gqlReq := &gql.Request{
		Query:     req.Query,
		Variables: req.Variables,
		OpName:    req.OperationName,
	}

	for attempt := 1; ; attempt++ {
		var data json.RawMessage
		gqlResp := &gql.Response{Data: &data}
		err := client.MakeRequest(ctx, gqlReq, gqlResp)

		var limited *tooManyRequestsError
		if errors.As(err, &limited) {
			if attempt > maxRetries {
				c.logger.Error("graphql rate limit retries exhausted",
					zap.String("endpoint", req.Endpoint),
					zap.String("operation", req.OperationName),
					zap.Int("attempts", attempt),
				)
				return nil, &RateLimitError{Endpoint: req.Endpoint, Operation: req.OperationName, Attempts: attempt}
			}

			wait := backoff
			if limited.RetryAfter > wait {
				wait = limited.RetryAfter
			}
			wait += c.jitter(c.cfg.MaxJitter)
			c.pacer.Cooldown(req.Endpoint, time.Now().Add(wait))

			c.logger.Warn("graphql rate limited",
				zap.String("endpoint", req.Endpoint),
				zap.String("operation", req.OperationName),
				zap.Int("attempt", attempt),
				zap.Duration("retry_after", limited.RetryAfter),
				zap.Duration("wait", wait),
			)
			backoff *= 2
			continue
		}

		var gqlErrs gqlerror.List
		if err != nil && !errors.As(err, &gqlErrs) {
			return nil, fmt.Errorf("graphql %s: %w", req.OperationName, err)
		}
		if len(gqlErrs) > 0 {
			c.logger.Warn("graphql response errors",
				zap.String("endpoint", req.Endpoint),
				zap.String("operation", req.OperationName),
				zap.String("errors", gqlErrs.Error()),
			)
		}

		return &Response{Data: normalizeData(data), Errors: gqlErrs}, nil
	}
}

func (c *Client) clientFor(endpoint string) gql.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[endpoint]; ok {
		return client
	}
	client := gql.NewClient(endpoint, &pacedDoer{
		endpoint: endpoint,
		client:   c.http,
		pacer:    c.pacer,
		now:      time.Now,
	})
	c.clients[endpoint] = client
	return client
}

func requestKey(req Request) (string, error) {
	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return "", fmt.Errorf("marshal variables: %w", err)
	}
	return req.Endpoint + "\x00" + req.OperationName + "\x00" + string(vars), nil
}

func normalizeData(data json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return data
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max) + 1))
}
