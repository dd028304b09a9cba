package dto

import (
	"context"
	"io"
	"net/http"
)

// TransportInterface is one backend capable of turning descriptors
// into wire requests and sending them. Encode and Do are split so the
// orchestrator can re-encode from the descriptor before a retry.
type TransportInterface interface {
	Ref() string
	Type() ClientType
	// Encode builds a transport-specific wire request. Failures are
	// terminal and never retried.
	Encode(ctx context.Context, d *Descriptor) (any, error)
	// Do sends a previously encoded wire request and buffers the
	// response body. Non-success statuses are not errors here;
	// classification happens in the orchestrator.
	Do(ctx context.Context, wire any) (Response, error)
}

// StreamingTransport is implemented by transports that can hand the
// response body out as a live stream, used by the download path.
type StreamingTransport interface {
	Stream(ctx context.Context, wire any) (*StreamResponse, error)
}

// StreamResponse is a response whose body has not been read yet. The
// caller owns Body and must close it.
type StreamResponse struct {
	StatusCode    int
	Headers       http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// ConnectivityProbe reports whether the network looks reachable. It is
// consulted once before a send, never mid-flight.
type ConnectivityProbe interface {
	IsOnline(ctx context.Context) bool
}

// RefreshHandler is supplied by the host application. It must persist
// the new token so that subsequently read auth headers reflect it.
// Returning false (or an error) means the session could not be
// refreshed.
type RefreshHandler func(ctx context.Context) (bool, error)

// AuthHeaderSource supplies the auth headers for a call. It is
// re-queried on every encode so a refreshed token is picked up by the
// retry attempt.
type AuthHeaderSource interface {
	AuthHeaders(ctx context.Context) map[string]string
}

// AuthHeaderFunc adapts a function to AuthHeaderSource.
type AuthHeaderFunc func(ctx context.Context) map[string]string

func (f AuthHeaderFunc) AuthHeaders(ctx context.Context) map[string]string { return f(ctx) }

// StaticAuthHeaders is a fixed auth header set.
type StaticAuthHeaders map[string]string

func (h StaticAuthHeaders) AuthHeaders(context.Context) map[string]string { return h }

// AuthProvider defines methods for non-OAuth authentication schemes.
// Returned TokenInfo may include cookies or access tokens.
type AuthProvider interface {
	Authenticate(ctx context.Context) (TokenInfo, error)
	Refresh(ctx context.Context, old TokenInfo) (TokenInfo, error)
}
