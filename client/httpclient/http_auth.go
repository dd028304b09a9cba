package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joy-dx/netpipe/dto"
)

// normalizeAuthType ensures proper "Bearer", "Basic", or custom capitalization.
func normalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		if t == "" {
			return "Bearer"
		}
		return t
	}
}

// attachAuth fills in client-held credentials. A header already set by
// the descriptor's auth source wins; the encode stage merged that in
// before the wire request reached the client.
func (c *HTTPClient) attachAuth(r *WireRequest) {
	if r.Header("Authorization") != "" {
		return
	}

	if c.token.AccessToken != "" {
		r.SetHeader("Authorization", fmt.Sprintf(
			"%s %s", normalizeAuthType(c.token.TokenType), c.token.AccessToken,
		))
		return
	}

	if len(c.token.Cookies) > 0 && r.Header("Cookie") == "" {
		merged := ""
		for _, ck := range c.token.Cookies {
			merged += ck.Name + "=" + ck.Value + "; "
		}
		r.SetHeader("Cookie", merged)
	}
}

// ensureToken verifies if an active token is valid, auto-refreshing if necessary.
func (c *HTTPClient) ensureToken(ctx context.Context) error {
	if c.cfg.OAuthSource == nil && c.cfg.AuthProvider == nil {
		return nil
	}

	c.tokenMu.RLock()
	valid := !c.token.IsExpired(c.cfg.RefreshBuffer)
	c.tokenMu.RUnlock()
	if valid {
		return nil
	}
	return c.refreshToken(ctx)
}

// refreshToken retrieves a new token using OAuth2 or AuthProvider.
func (c *HTTPClient) refreshToken(ctx context.Context) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if !c.token.IsExpired(c.cfg.RefreshBuffer) {
		return nil
	}

	// Case 1: OAuth2 integration
	if c.cfg.OAuthSource != nil {
		oauthTok, err := c.cfg.OAuthSource.Token()
		if err != nil {
			return fmt.Errorf("oauth2 token fetch: %w", err)
		}
		c.token.AccessToken = oauthTok.AccessToken
		c.token.TokenType = normalizeAuthType(oauthTok.TokenType)
		c.token.Expiry = oauthTok.Expiry
		return nil
	}

	// Case 2: custom AuthProvider
	var newTok dto.TokenInfo
	var err error

	if c.token.AccessToken == "" && len(c.token.Cookies) == 0 {
		newTok, err = c.cfg.AuthProvider.Authenticate(ctx)
	} else {
		newTok, err = c.cfg.AuthProvider.Refresh(ctx, c.token)
		if err != nil {
			newTok, err = c.cfg.AuthProvider.Authenticate(ctx)
		}
	}
	if err != nil {
		return fmt.Errorf("auth provider refresh: %w", err)
	}

	newTok.TokenType = normalizeAuthType(newTok.TokenType)
	c.token = newTok
	return nil
}

// captureCookiesFromResponse stores updated cookies from Set-Cookie headers.
func (c *HTTPClient) captureCookiesFromResponse(resp dto.Response) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	for _, set := range resp.Headers["Set-Cookie"] {
		for _, cookie := range parseSetCookieHeader(set) {
			c.storeOrReplaceCookie(cookie)
		}
	}
}

// storeOrReplaceCookie updates or appends a cookie by its name.
func (c *HTTPClient) storeOrReplaceCookie(cookie *http.Cookie) {
	for i, existing := range c.token.Cookies {
		if existing.Name == cookie.Name {
			c.token.Cookies[i] = cookie
			return
		}
	}
	c.token.Cookies = append(c.token.Cookies, cookie)
}

// parseSetCookieHeader safely extracts cookies from a raw Set-Cookie header line.
func parseSetCookieHeader(v string) []*http.Cookie {
	resp := &http.Response{Header: http.Header{"Set-Cookie": []string{v}}}
	return resp.Cookies()
}
