package httpclient

import "github.com/joy-dx/netpipe/dto"

const ClientTypeHTTP dto.ClientType = "netpipe.client.http"

// WireRequest is the transport-ready form of a descriptor: final URL,
// merged headers, finalized body bytes. It is built fresh for every
// attempt and never mutated for a resend.
type WireRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        []byte
	ContentType string
	Pinning     *dto.PinPolicy
}

func (r *WireRequest) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[k] = v
}

func (r *WireRequest) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[k]
}
