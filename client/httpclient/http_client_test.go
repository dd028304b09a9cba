package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/joy-dx/netpipe/config"
	"github.com/joy-dx/netpipe/dto"
)

// --- helpers ----------------------------------------------------------------

func newTestClient(t *testing.T, cfg *HTTPClientConfig) *HTTPClient {
	t.Helper()

	netCfg := &config.SvcConfig{
		RequestTimeout: 2 * time.Second,
	}
	if cfg == nil {
		c := DefaultHTTPClientConfig()
		cfg = &c
	}
	return NewHTTPClient("test", netCfg, cfg)
}

type staticTokenSource struct {
	tok *oauth2.Token
	err error
	n   atomic.Int64
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	s.n.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	// return a copy to avoid tests mutating shared state
	cpy := *s.tok
	return &cpy, nil
}

type fakeAuthProvider struct {
	authenticate func(ctx context.Context) (dto.TokenInfo, error)
	refresh      func(ctx context.Context, old dto.TokenInfo) (dto.TokenInfo, error)
}

func (f fakeAuthProvider) Authenticate(ctx context.Context) (dto.TokenInfo, error) {
	if f.authenticate == nil {
		return dto.TokenInfo{}, errors.New("Authenticate not implemented")
	}
	return f.authenticate(ctx)
}

func (f fakeAuthProvider) Refresh(ctx context.Context, old dto.TokenInfo) (dto.TokenInfo, error) {
	if f.refresh == nil {
		return dto.TokenInfo{}, errors.New("Refresh not implemented")
	}
	return f.refresh(ctx, old)
}

type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Header      http.Header
	Body        []byte
	ContentType string
}

func newRecordingServer(t *testing.T, handler func(rr recordedRequest, w http.ResponseWriter)) (*httptest.Server, *recordedRequest) {
	t.Helper()

	var last recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		last = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Header:      r.Header.Clone(),
			Body:        b,
			ContentType: r.Header.Get("Content-Type"),
		}
		handler(last, w)
	}))
	return srv, &last
}

func sendDescriptor(t *testing.T, c *HTTPClient, d *dto.Descriptor) (dto.Response, error) {
	t.Helper()

	wire, err := c.Encode(context.Background(), d)
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}
	return c.Do(context.Background(), wire)
}

// --- tests ------------------------------------------------------------------

func Test_HTTPClient_EncodeDo_golden_endToEnd(t *testing.T) {
	type golden struct {
		status int
		body   string

		wantReqMethod string
		wantAuth      string
		wantCookie    string
		wantHeaders   map[string]string
		wantCT        string
		wantBodyJSON  map[string]any

		// cookie capture
		expectStoredCookieName string
	}

	makeServer := func(t *testing.T, g golden) (*httptest.Server, *recordedRequest) {
		t.Helper()
		return newRecordingServer(t, func(rr recordedRequest, w http.ResponseWriter) {
			// simulate Set-Cookie if requested
			if g.expectStoredCookieName != "" {
				http.SetCookie(w, &http.Cookie{
					Name:  g.expectStoredCookieName,
					Value: "cookieval",
					Path:  "/",
				})
			}

			if g.status != 0 {
				w.WriteHeader(g.status)
			} else {
				w.WriteHeader(200)
			}
			if g.body != "" {
				_, _ = w.Write([]byte(g.body))
			}
		})
	}

	cases := []struct {
		name  string
		setup func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden)
	}{
		{
			name: "oauth bearer attached + static headers + json body",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:        200,
					body:          "ok",
					wantReqMethod: http.MethodPost,
					wantAuth:      "Bearer abc",
					wantHeaders: map[string]string{
						"X-Static":  "1",
						"X-Per-Req": "1",
					},
					wantCT:       "application/json",
					wantBodyJSON: map[string]any{"orig": "v"},
				}

				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.OAuthSource = &staticTokenSource{
					tok: &oauth2.Token{
						AccessToken: "abc",
						TokenType:   "bearer",
						Expiry:      time.Now().Add(1 * time.Hour),
					},
				}
				cfg.WithMiddleware(StaticHeaderMiddleware(map[string]string{
					"X-Static": "1",
				}))

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
		{
			name: "authprovider used when no oauth",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:        200,
					body:          "ok",
					wantReqMethod: http.MethodGet,
					wantAuth:      "Bearer from-provider",
				}

				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.AuthProvider = fakeAuthProvider{
					authenticate: func(ctx context.Context) (dto.TokenInfo, error) {
						return dto.TokenInfo{
							AccessToken: "from-provider",
							TokenType:   "bearer",
							Expiry:      time.Now().Add(1 * time.Hour),
						}, nil
					},
				}

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
		{
			name: "oauth takes precedence over authprovider",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:        200,
					body:          "ok",
					wantReqMethod: http.MethodGet,
					wantAuth:      "Bearer oauth",
				}
				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.OAuthSource = &staticTokenSource{
					tok: &oauth2.Token{
						AccessToken: "oauth",
						TokenType:   "bearer",
						Expiry:      time.Now().Add(1 * time.Hour),
					},
				}
				cfg.AuthProvider = fakeAuthProvider{
					authenticate: func(ctx context.Context) (dto.TokenInfo, error) {
						return dto.TokenInfo{
							AccessToken: "provider",
							TokenType:   "bearer",
							Expiry:      time.Now().Add(1 * time.Hour),
						}, nil
					},
				}

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
		{
			name: "descriptor auth source wins over client token",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:        200,
					body:          "ok",
					wantReqMethod: http.MethodGet,
					wantAuth:      "Bearer per-call",
				}
				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.OAuthSource = &staticTokenSource{
					tok: &oauth2.Token{
						AccessToken: "client-held",
						TokenType:   "bearer",
						Expiry:      time.Now().Add(1 * time.Hour),
					},
				}

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
		{
			name: "cookie session used when no access token",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:        200,
					body:          "ok",
					wantReqMethod: http.MethodGet,
					wantCookie:    "a=b;",
				}
				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.AuthProvider = fakeAuthProvider{
					authenticate: func(ctx context.Context) (dto.TokenInfo, error) {
						return dto.TokenInfo{
							Cookies: []*http.Cookie{
								{Name: "a", Value: "b"},
							},
							// expiry zero => treated valid
						}, nil
					},
				}

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
		{
			name: "captures set-cookie from response into token store",
			setup: func(t *testing.T) (*HTTPClient, *httptest.Server, *recordedRequest, golden) {
				g := golden{
					status:                 200,
					body:                   "ok",
					wantReqMethod:          http.MethodGet,
					expectStoredCookieName: "sid",
				}
				srv, last := makeServer(t, g)

				cfg := DefaultHTTPClientConfig()
				cfg.OAuthSource = &staticTokenSource{
					tok: &oauth2.Token{
						AccessToken: "abc",
						TokenType:   "bearer",
						Expiry:      time.Now().Add(1 * time.Hour),
					},
				}

				c := newTestClient(t, &cfg)
				return c, srv, last, g
			},
		},
	}

	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			client, srv, last, g := cse.setup(t)
			defer srv.Close()

			d := dto.NewDescriptor(srv.URL, "/endpoint").WithMethod(g.wantReqMethod)
			if g.wantBodyJSON != nil {
				d.WithTask(dto.JSONBodyTask{Body: map[string]any{"orig": "v"}})
			}
			if g.wantHeaders != nil {
				d.WithHeader("X-Per-Req", "1")
			}
			if g.wantAuth == "Bearer per-call" {
				d.WithAuthSource(dto.StaticAuthHeaders{"Authorization": "Bearer per-call"})
			}

			resp, err := sendDescriptor(t, client, d)
			if err != nil {
				t.Fatalf("Do error: %v", err)
			}
			if resp.StatusCode != g.status {
				t.Fatalf("status=%d want %d", resp.StatusCode, g.status)
			}
			if string(resp.Body) != g.body {
				t.Fatalf("body=%q want %q", resp.Body, g.body)
			}

			// server-recorded request assertions
			if last.Method != g.wantReqMethod {
				t.Fatalf("method=%q; want %q", last.Method, g.wantReqMethod)
			}

			if g.wantAuth != "" {
				if got := last.Header.Get("Authorization"); got != g.wantAuth {
					t.Fatalf("Authorization=%q; want %q", got, g.wantAuth)
				}
			}

			if g.wantCookie != "" {
				got := last.Header.Get("Cookie")
				if !strings.Contains(got, g.wantCookie) {
					t.Fatalf("Cookie=%q; want contains %q", got, g.wantCookie)
				}
			}

			for k, v := range g.wantHeaders {
				if got := last.Header.Get(k); got != v {
					t.Fatalf("header %s=%q; want %q", k, got, v)
				}
			}

			if g.wantCT != "" {
				if last.ContentType != g.wantCT {
					t.Fatalf("Content-Type=%q; want %q", last.ContentType, g.wantCT)
				}
			}

			if g.wantBodyJSON != nil {
				var got map[string]any
				if err := json.Unmarshal(last.Body, &got); err != nil {
					t.Fatalf("unmarshal body=%q: %v", last.Body, err)
				}
				if !reflect.DeepEqual(got, g.wantBodyJSON) {
					t.Fatalf("json body=%v; want %v", got, g.wantBodyJSON)
				}
			}

			// cookie capture assertion
			if g.expectStoredCookieName != "" {
				client.tokenMu.RLock()
				defer client.tokenMu.RUnlock()
				found := false
				for _, ck := range client.token.Cookies {
					if ck != nil && ck.Name == g.expectStoredCookieName {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("expected stored cookie %q; got %v", g.expectStoredCookieName, client.token.Cookies)
				}
			}
		})
	}
}

func Test_HTTPClient_Do_NonSuccessIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, nil)
	resp, err := sendDescriptor(t, c, dto.NewDescriptor(srv.URL, "/private"))
	if err != nil {
		t.Fatalf("status codes are data, not errors; got %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", resp.StatusCode)
	}
}

func Test_HTTPClient_Do_RejectsForeignWireType(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, nil)
	if _, err := c.Do(context.Background(), "not a wire request"); err == nil {
		t.Fatalf("expected wire type error")
	}
}

func Test_HTTPClient_QueryParamMiddleware(t *testing.T) {
	t.Parallel()

	srv, last := newRecordingServer(t, func(rr recordedRequest, w http.ResponseWriter) {
		w.WriteHeader(200)
	})
	t.Cleanup(srv.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.WithMiddleware(QueryParamMiddleware("api_key", "k-123"))
	c := newTestClient(t, &cfg)

	if _, err := sendDescriptor(t, c, dto.NewDescriptor(srv.URL, "/list")); err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if !strings.Contains(last.RawQuery, "api_key=k-123") {
		t.Fatalf("query=%q; middleware param missing", last.RawQuery)
	}
}

func Test_HTTPClient_MiddlewareAbortsSend(t *testing.T) {
	t.Parallel()

	reached := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.WithMiddleware(func(ctx context.Context, r *WireRequest) error {
		return errors.New("blocked")
	})
	c := newTestClient(t, &cfg)

	if _, err := sendDescriptor(t, c, dto.NewDescriptor(srv.URL, "/x")); err == nil {
		t.Fatalf("expected middleware abort")
	}
	if reached {
		t.Fatalf("request must not reach the server after abort")
	}
}

func Test_HTTPClient_ensureToken_refreshBufferTriggersRefresh(t *testing.T) {
	ts := &staticTokenSource{
		tok: &oauth2.Token{
			AccessToken: "t1",
			TokenType:   "bearer",
			Expiry:      time.Now().Add(2 * time.Second),
		},
	}

	cfg := DefaultHTTPClientConfig()
	cfg.OAuthSource = ts
	cfg.RefreshBuffer = 30 * time.Second // larger than remaining lifetime -> refresh

	c := newTestClient(t, &cfg)

	// one request should cause token refresh (TokenSource.Token called)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	if _, err := sendDescriptor(t, c, dto.NewDescriptor(srv.URL, "/x")); err != nil {
		t.Fatalf("Do error: %v", err)
	}

	if ts.n.Load() != 1 {
		t.Fatalf("Token() calls=%d; want 1", ts.n.Load())
	}
}
