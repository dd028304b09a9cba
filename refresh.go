package netpipe

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/joy-dx/netpipe/dto"
)

// RefreshCoordinator guarantees at most one concurrent token refresh.
// Callers that observe a 401 while a refresh is already in flight
// attach to the pending outcome instead of starting a second refresh;
// once it settles the coordinator is idle again, so a later expiry can
// refresh anew.
type RefreshCoordinator struct {
	handler dto.RefreshHandler
	group   singleflight.Group
}

func NewRefreshCoordinator(handler dto.RefreshHandler) *RefreshCoordinator {
	return &RefreshCoordinator{handler: handler}
}

// AttemptRefresh reports whether the session was refreshed. Without a
// registered handler it returns false immediately. A handler error
// counts as a failed refresh for every waiter; it never panics the
// pipeline.
func (rc *RefreshCoordinator) AttemptRefresh(ctx context.Context) bool {
	if rc == nil || rc.handler == nil {
		return false
	}

	// The refresh runs detached from the triggering caller's context:
	// waiters sharing the outcome must not have it cancelled out from
	// under them by whichever request happened to arrive first.
	v, _, _ := rc.group.Do("token-refresh", func() (any, error) {
		ok, err := rc.handler(context.WithoutCancel(ctx))
		if err != nil {
			return false, nil
		}
		return ok, nil
	})

	ok, _ := v.(bool)
	return ok
}

// OAuthRefreshHandler adapts an oauth2 TokenSource into a refresh
// handler. The optional store callback receives the new token so the
// host can persist it where its auth header source reads from.
func OAuthRefreshHandler(src oauth2.TokenSource, store func(dto.TokenInfo)) dto.RefreshHandler {
	return func(ctx context.Context) (bool, error) {
		tok, err := src.Token()
		if err != nil {
			return false, err
		}
		if store != nil {
			store(dto.TokenInfo{
				AccessToken: tok.AccessToken,
				TokenType:   tok.TokenType,
				Expiry:      tok.Expiry,
			})
		}
		return true, nil
	}
}
