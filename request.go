package netpipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/joy-dx/netpipe/dto"
	"github.com/joy-dx/netpipe/relays"
	"github.com/joy-dx/netpipe/utils"
)

// Get ExecuteWithRetry
func (s *Service) Get(ctx context.Context, url string, withRetry bool) (dto.Response, error) {
	cfg := dto.DefaultRequestConfig()
	cfg.WithDescriptor(dto.NewDescriptor(url, "")).
		WithTaskName("GET " + url)

	if withRetry {
		return s.ExecuteWithRetry(ctx, &cfg)
	}
	return s.ExecuteOnce(ctx, &cfg)
}

// Post ExecuteWithRetry
func (s *Service) Post(ctx context.Context, url string, payload map[string]interface{}, withRetry bool) (dto.Response, error) {
	d := dto.NewDescriptor(url, "").
		WithMethod(http.MethodPost).
		WithTask(dto.JSONBodyTask{Body: payload})
	cfg := dto.DefaultRequestConfig()
	cfg.WithDescriptor(d).
		WithTaskName("POST " + url)

	if withRetry {
		return s.ExecuteWithRetry(ctx, &cfg)
	}
	return s.ExecuteOnce(ctx, &cfg)
}

// ExecuteWithRetry wraps ExecuteOnce in the outer retry loop: transient
// transport failures and 5xx responses are retried up to MaxRetries
// with the configured delay. Encoding errors, client errors, and the
// 401 path are never retried here; the one-shot refresh retry happens
// inside ExecuteOnce.
func (s *Service) ExecuteWithRetry(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Delay == nil {
		cfg.Delay = utils.ConstantDelay{Period: 1}
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			cfg.Delay.Wait(cfg.TaskName, attempt)
		}

		resp, err := s.ExecuteOnce(ctx, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt < cfg.MaxRetries && isRetryable(err) {
			continue
		}
		return resp, err
	}

	return dto.Response{}, fmt.Errorf("failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

func isRetryable(err error) bool {
	var netErr *dto.NetworkError
	if errors.As(err, &netErr) {
		return utils.IsTemporaryErr(netErr.Err)
	}
	var httpErr *dto.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Category == dto.ServerError
	}
	return false
}

// ExecuteOnce runs the pipeline for a single logical call:
// connectivity gate, encode, send, classify, and for authorized calls
// a single refresh-and-retry on 401. The retry re-encodes from the
// descriptor so refreshed auth headers are picked up.
func (s *Service) ExecuteOnce(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}
	if cfg.ClientRef == "" {
		return dto.Response{}, errors.New("nil ClientRef provided")
	}
	if cfg.Descriptor == nil {
		return dto.Response{}, dto.ErrNilDescriptor
	}
	if cfg.TaskName == "" {
		cfg.TaskName = "http_request"
	}

	client, isOK := s.clients[cfg.ClientRef]
	if !isOK {
		return dto.Response{}, fmt.Errorf("client not found: %s", cfg.ClientRef)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if s.cfg.Probe != nil && !s.cfg.Probe.IsOnline(ctx) {
		return dto.Response{}, fmt.Errorf("%w: pre-flight check failed", dto.ErrNoNetwork)
	}

	if err := s.checkDomainPolicy(cfg.Descriptor); err != nil {
		return dto.Response{}, err
	}

	resp, err := s.attempt(ctx, client, cfg.Descriptor)
	if err != nil {
		return dto.Response{}, err
	}

	category := dto.Classify(resp.StatusCode)
	s.logRequest(cfg.Descriptor, resp.StatusCode, category, 1)

	switch category {
	case dto.Success:
		return resp, nil

	case dto.NotAuthorized:
		if !cfg.Descriptor.Authorized || !s.refresh.AttemptRefresh(ctx) {
			return resp, &dto.HTTPError{StatusCode: resp.StatusCode, Category: dto.NotAuthorized}
		}

		retryResp, retryErr := s.attempt(ctx, client, cfg.Descriptor)
		if retryErr != nil {
			return dto.Response{}, retryErr
		}
		retryCategory := dto.Classify(retryResp.StatusCode)
		s.logRequest(cfg.Descriptor, retryResp.StatusCode, retryCategory, 2)
		if retryCategory == dto.Success {
			return retryResp, nil
		}
		// A second 401 is not retried again; one refresh per logical call.
		return retryResp, &dto.HTTPError{StatusCode: retryResp.StatusCode, Category: retryCategory}

	default:
		return resp, &dto.HTTPError{StatusCode: resp.StatusCode, Category: category}
	}
}

// attempt performs one encode+send round trip. The wire request is
// built fresh each time and never reused.
func (s *Service) attempt(ctx context.Context, client dto.TransportInterface, d *dto.Descriptor) (dto.Response, error) {
	wire, err := client.Encode(ctx, d)
	if err != nil {
		return dto.Response{}, err
	}

	resp, err := client.Do(ctx, wire)
	if err != nil {
		return dto.Response{}, &dto.NetworkError{Err: err}
	}
	return resp, nil
}

// checkDomainPolicy enforces the configured domain blacklist and
// whitelist against the descriptor's target host.
func (s *Service) checkDomainPolicy(d *dto.Descriptor) error {
	if len(s.cfg.BlacklistDomains) == 0 && len(s.cfg.WhitelistDomains) == 0 {
		return nil
	}

	u, err := d.ResolveURL()
	if err != nil {
		return err
	}
	host := u.Hostname()

	for _, blocked := range s.cfg.BlacklistDomains {
		if host == blocked {
			return fmt.Errorf("domain %q is blacklisted", host)
		}
	}
	if len(s.cfg.WhitelistDomains) > 0 {
		for _, allowed := range s.cfg.WhitelistDomains {
			if host == allowed {
				return nil
			}
		}
		return fmt.Errorf("domain %q is not whitelisted", host)
	}
	return nil
}

func (s *Service) logRequest(d *dto.Descriptor, status int, category dto.StatusCategory, attempt int) {
	if s.relay == nil {
		return
	}
	s.relay.Info(relays.RlyNetRequest{
		Method:   d.Method,
		URL:      d.BaseURL + d.Path,
		Status:   status,
		Category: category,
		Attempt:  attempt,
	})
}
