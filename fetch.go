package netpipe

import (
	"context"

	"github.com/joy-dx/netpipe/dto"
)

// Fetch executes the call and converts the success body into T using
// the service's converter registry. Go methods cannot carry type
// parameters, so the typed entry points are package-level functions
// taking the service.
func Fetch[T any](ctx context.Context, s *Service, cfg *dto.RequestConfig) (T, error) {
	var zero T
	resp, err := s.ExecuteWithRetry(ctx, cfg)
	if err != nil {
		return zero, err
	}
	return dto.ConvertAs[T](s.cfg.Converters, resp.Body)
}

// FetchResult is the inspectable form of Fetch.
func FetchResult[T any](ctx context.Context, s *Service, cfg *dto.RequestConfig) dto.Result[T] {
	v, err := Fetch[T](ctx, s, cfg)
	if err != nil {
		return dto.Err[T](err)
	}
	return dto.Ok(v)
}

// FetchList converts a JSON array body into []T element-wise; the
// first mismatching element aborts with its index.
func FetchList[T any](ctx context.Context, s *Service, cfg *dto.RequestConfig) ([]T, error) {
	resp, err := s.ExecuteWithRetry(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return dto.ConvertListAs[T](s.cfg.Converters, resp.Body)
}

// Send executes a call whose response body does not matter; an empty
// success body is completion.
func (s *Service) Send(ctx context.Context, cfg *dto.RequestConfig) error {
	_, err := s.ExecuteWithRetry(ctx, cfg)
	return err
}
