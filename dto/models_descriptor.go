package dto

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Descriptor declaratively describes one logical network call. It is
// safe to reuse: every attempt re-derives the wire request from it, so
// auth headers are re-read after a token refresh.
type Descriptor struct {
	Method     string            `json:"method" yaml:"method"`
	BaseURL    string            `json:"base_url" yaml:"base_url"`
	Path       string            `json:"path" yaml:"path"`
	Task       Task              `json:"-" yaml:"-"`
	Headers    map[string]string `json:"headers" yaml:"headers"`
	AuthSource AuthHeaderSource  `json:"-" yaml:"-"`
	// Authorized marks calls that may trigger a token refresh on 401.
	Authorized bool       `json:"authorized" yaml:"authorized"`
	Pinning    *PinPolicy `json:"-" yaml:"-"`
}

func NewDescriptor(baseURL, path string) *Descriptor {
	return &Descriptor{
		Method:  http.MethodGet,
		BaseURL: baseURL,
		Path:    path,
		Task:    PlainTask{},
		Headers: make(map[string]string),
	}
}

func (d *Descriptor) WithMethod(method string) *Descriptor {
	d.Method = method
	return d
}

func (d *Descriptor) WithTask(task Task) *Descriptor {
	d.Task = task
	return d
}

func (d *Descriptor) WithHeader(key, value string) *Descriptor {
	if d.Headers == nil {
		d.Headers = make(map[string]string)
	}
	d.Headers[key] = value
	return d
}

func (d *Descriptor) WithHeaders(headers map[string]string) *Descriptor {
	d.Headers = headers
	return d
}

func (d *Descriptor) WithAuthSource(src AuthHeaderSource) *Descriptor {
	d.AuthSource = src
	return d
}

func (d *Descriptor) WithAuthorized(authorized bool) *Descriptor {
	d.Authorized = authorized
	return d
}

func (d *Descriptor) WithPinning(policy *PinPolicy) *Descriptor {
	d.Pinning = policy
	return d
}

// ResolveURL joins BaseURL and Path and validates the result is an
// absolute URL. Violation is a terminal encoding error.
func (d *Descriptor) ResolveURL() (*url.URL, error) {
	raw := d.BaseURL + d.Path
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	return u, nil
}

// MergedHeaders resolves the final header set for one attempt:
// defaults < standard headers < auth headers, auth winning on key
// collision. Auth headers are read fresh on every call.
func (d *Descriptor) MergedHeaders(ctx context.Context, defaults map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(d.Headers))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range d.Headers {
		out[k] = v
	}
	if d.AuthSource != nil {
		for k, v := range d.AuthSource.AuthHeaders(ctx) {
			out[k] = v
		}
	}
	return out
}
