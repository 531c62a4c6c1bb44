// Package spotify implements the primary catalog port against the Spotify
// Web API using the client-credentials grant.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Config holds what the adapter needs to talk to Spotify. BaseURL and
// TokenURL default to the public endpoints; tests point them at a mock.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
	Logger       *log.Logger
}

// Client is the Spotify catalog adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *tokenSource
	logger     *log.Logger

	maxRetries  int
	baseBackoff time.Duration
}

var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a Spotify client. The bearer token is acquired
// lazily on first use and cached for the process lifetime.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With("adapter", "spotify"),
		tokens: newTokenSource(&clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}, httpClient),
	}
}

// tokenSource caches a client-credentials token. The oauth2 token source
// refreshes expired tokens on its own; invalidate discards the cached source
// so the next call performs a fresh exchange after a 401.
type tokenSource struct {
	conf *clientcredentials.Config
	ctx  context.Context

	mu  sync.Mutex
	src oauth2.TokenSource
}

func newTokenSource(conf *clientcredentials.Config, httpClient *http.Client) *tokenSource {
	// Token exchanges outlive any single request, so they run on a
	// background context carrying the adapter's HTTP client.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	return &tokenSource{conf: conf, ctx: ctx}
}

func (t *tokenSource) token() (*oauth2.Token, error) {
	if t.conf.ClientID == "" || t.conf.ClientSecret == "" {
		return nil, fmt.Errorf("spotify adapter: missing client credentials: %w", domain.ErrTokenUnavailable)
	}

	t.mu.Lock()
	if t.src == nil {
		t.src = t.conf.TokenSource(t.ctx)
	}
	src := t.src
	t.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: token exchange failed: %w", domain.ErrTokenUnavailable)
	}
	return tok, nil
}

func (t *tokenSource) invalidate() {
	t.mu.Lock()
	t.src = nil
	t.mu.Unlock()
}

// doAuthorized sends a request with a bearer token, re-acquiring the token
// once if Spotify rejects the cached one.
func (c *Client) doAuthorized(req *http.Request) (*http.Response, error) {
	tok, err := c.tokens.token()
	if err != nil {
		return nil, err
	}
	tok.SetAuthHeader(req)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	_ = resp.Body.Close()
	c.logger.Warn("token rejected, re-acquiring")
	c.tokens.invalidate()

	tok, err = c.tokens.token()
	if err != nil {
		return nil, err
	}
	retryReq := req.Clone(req.Context())
	tok.SetAuthHeader(retryReq)
	return c.doRequestWithRetry(retryReq)
}
