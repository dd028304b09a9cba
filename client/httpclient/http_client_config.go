package httpclient

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/joy-dx/netpipe/dto"
)

// Middleware is executed on the wire request before each send.
// Returning nil continues the chain; returning an error aborts it.
type Middleware func(ctx context.Context, r *WireRequest) error

type HTTPClientConfig struct {
	AuthProvider  dto.AuthProvider
	OAuthSource   oauth2.TokenSource
	RefreshBuffer time.Duration
	Middlewares   []Middleware
}

func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		RefreshBuffer: 30 * time.Second,
		Middlewares:   make([]Middleware, 0),
	}
}

func (c *HTTPClientConfig) WithAuthProvider(provider dto.AuthProvider) *HTTPClientConfig {
	c.AuthProvider = provider
	return c
}

func (c *HTTPClientConfig) WithOAuthSource(tokenSource oauth2.TokenSource) *HTTPClientConfig {
	c.OAuthSource = tokenSource
	return c
}

// WithRefreshBuffer sets the early-refresh buffer.
func (c *HTTPClientConfig) WithRefreshBuffer(d time.Duration) *HTTPClientConfig {
	c.RefreshBuffer = d
	return c
}

func (c *HTTPClientConfig) WithMiddleware(m ...Middleware) *HTTPClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}
