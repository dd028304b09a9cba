package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/joy-dx/netpipe/config"
	"github.com/joy-dx/netpipe/dto"
)

// HTTPClient is the net/http transport backend. It implements the
// encode/do split of dto.TransportInterface plus streaming for
// downloads, and manages its own credential state:
//
//   - OAuth2 TokenSource (golang.org/x/oauth2)
//   - Custom AuthProvider
//   - Cookie-based sessions
//
// A single HTTPClient is safe for concurrent use; requests with a pin
// policy attached are sent through a per-policy pinned transport.
type HTTPClient struct {
	Info    dto.ClientInfo `json:"client_info" yaml:"client_info"`
	cfg     *HTTPClientConfig
	netCfg  *config.SvcConfig
	client  *http.Client
	token   dto.TokenInfo
	tokenMu sync.RWMutex

	pinned   map[*dto.PinPolicy]*http.Client
	pinnedMu sync.Mutex
}

func NewHTTPClient(ref string, netCfg *config.SvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		netCfg: netCfg,
		Info: dto.ClientInfo{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  ClientTypeHTTP,
			Description: "Sends descriptor-built requests over HTTP with auth and pinning support",
		},
		client: &http.Client{
			Timeout:   netCfg.RequestTimeout,
			Transport: newBaseTransport(),
		},
		pinned: make(map[*dto.PinPolicy]*http.Client),
	}
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   false,
		Proxy:               http.ProxyFromEnvironment,
	}
}

func (c *HTTPClient) Ref() string {
	return c.Info.Ref
}

func (c *HTTPClient) Type() dto.ClientType {
	return ClientTypeHTTP
}

// Do sends an encoded wire request and buffers the response. Status
// codes are reported as data, not errors; the orchestrator classifies
// them.
func (c *HTTPClient) Do(ctx context.Context, wire any) (dto.Response, error) {
	stream, err := c.Stream(ctx, wire)
	if err != nil {
		return dto.Response{}, err
	}
	defer func() {
		io.Copy(io.Discard, stream.Body) // drain fully for connection reuse
		stream.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(stream.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	response := dto.Response{
		StatusCode: stream.StatusCode,
		Headers:    stream.Headers,
		Body:       bodyBytes,
	}

	// Capture cookies, prunes if expired
	if setCookies := response.Headers["Set-Cookie"]; len(setCookies) > 0 {
		c.captureCookiesFromResponse(response)
	}

	return response, nil
}

// Stream sends an encoded wire request and returns the live response
// body. The caller owns the body and must close it.
func (c *HTTPClient) Stream(ctx context.Context, wire any) (*dto.StreamResponse, error) {
	r, ok := wire.(*WireRequest)
	if !ok {
		return nil, errors.New("wire request is not an http WireRequest")
	}

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, r); err != nil {
			return nil, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := c.ensureToken(ctx); err != nil {
		return nil, fmt.Errorf("ensure token: %w", err)
	}

	// Client-held credentials fill in only when the descriptor's auth
	// source did not already set an Authorization header.
	c.tokenMu.RLock()
	c.attachAuth(r)
	c.tokenMu.RUnlock()

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range r.Headers {
		httpReq.Header.Set(k, v)
	}
	if r.ContentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", r.ContentType)
	}

	httpResp, reqErr := c.clientFor(r.Pinning).Do(httpReq)
	if reqErr != nil {
		if httpResp != nil {
			httpResp.Body.Close()
		}
		return nil, fmt.Errorf("perform request: %w", reqErr)
	}

	return &dto.StreamResponse{
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header.Clone(),
		Body:          httpResp.Body,
		ContentLength: httpResp.ContentLength,
	}, nil
}

// clientFor returns the pooled client, or a pinned variant when the
// wire request carries a pin policy.
func (c *HTTPClient) clientFor(policy *dto.PinPolicy) *http.Client {
	if policy == nil {
		return c.client
	}

	c.pinnedMu.Lock()
	defer c.pinnedMu.Unlock()
	if cached, ok := c.pinned[policy]; ok {
		return cached
	}
	pinned := &http.Client{
		Timeout:   c.netCfg.RequestTimeout,
		Transport: newPinnedTransport(policy),
	}
	c.pinned[policy] = pinned
	return pinned
}
