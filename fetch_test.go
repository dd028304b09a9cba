package netpipe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/joy-dx/netpipe/dto"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func fetchConfig(ref string) *dto.RequestConfig {
	cfg := dto.DefaultRequestConfig()
	cfg.WithClientRef(ref).
		WithDescriptor(dto.NewDescriptor("https://api.test", "/users")).
		WithDelay(noWaitDelay{})
	return &cfg
}

func TestFetch_Golden(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("c", okTransport("c", 200, `{"id":1,"name":"Ann"}`))

	got, err := Fetch[user](context.Background(), s, fetchConfig("c"))
	if err != nil {
		t.Fatalf("Fetch err: %v", err)
	}
	if got.ID != 1 || got.Name != "Ann" {
		t.Fatalf("got %+v", got)
	}
}

func TestFetch_RegisteredConverterWins(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	dto.RegisterAs(s.cfg.Converters, func(raw map[string]any) (user, error) {
		name, ok := raw["name"].(string)
		if !ok {
			return user{}, fmt.Errorf("missing name")
		}
		id, _ := raw["id"].(float64)
		return user{ID: int(id), Name: "converted:" + name}, nil
	})
	s.RegisterClient("c", okTransport("c", 200, `{"id":7,"name":"Bo"}`))

	got, err := Fetch[user](context.Background(), s, fetchConfig("c"))
	if err != nil {
		t.Fatalf("Fetch err: %v", err)
	}
	if got.Name != "converted:Bo" {
		t.Fatalf("converter not applied, got %+v", got)
	}
}

func TestFetch_ShapeMismatch(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("c", okTransport("c", 200, `["not","an","object"]`))

	_, err := Fetch[user](context.Background(), s, fetchConfig("c"))
	var convErr *dto.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
}

func TestFetch_TransportErrorSkipsConversion(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("c", okTransport("c", 500, `{"id":1}`))

	cfg := fetchConfig("c")
	cfg.WithMaxRetries(0)
	_, err := Fetch[user](context.Background(), s, cfg)
	var httpErr *dto.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
}

func TestFetchResult_Golden(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("ok", okTransport("ok", 200, `{"id":2,"name":"Cy"}`))
	s.RegisterClient("bad", okTransport("bad", 404, ""))

	res := FetchResult[user](context.Background(), s, fetchConfig("ok"))
	if !res.IsOk() {
		t.Fatalf("expected ok result, err=%v", res.Error())
	}
	v, err := res.Value()
	if err != nil || v.ID != 2 {
		t.Fatalf("value=%+v err=%v", v, err)
	}

	cfg := fetchConfig("bad")
	cfg.WithMaxRetries(0)
	res = FetchResult[user](context.Background(), s, cfg)
	if res.IsOk() {
		t.Fatalf("expected error result")
	}
	if res.Error() == nil {
		t.Fatalf("error result must carry its error")
	}
}

func TestFetchList_Golden(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("c", okTransport("c", 200, `[{"id":1,"name":"Ann"},{"id":2,"name":"Bo"}]`))

	got, err := FetchList[user](context.Background(), s, fetchConfig("c"))
	if err != nil {
		t.Fatalf("FetchList err: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Bo" {
		t.Fatalf("got %+v", got)
	}
}

func TestFetchList_IndexedFailure(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	dto.RegisterAs(s.cfg.Converters, func(raw map[string]any) (user, error) {
		if _, ok := raw["name"].(string); !ok {
			return user{}, fmt.Errorf("missing name")
		}
		return user{Name: raw["name"].(string)}, nil
	})
	s.RegisterClient("c", okTransport("c", 200, `[{"name":"Ann"},{"id":2},{"name":"Cy"}]`))

	_, err := FetchList[user](context.Background(), s, fetchConfig("c"))
	var idxErr *dto.IndexedConversionError
	if !errors.As(err, &idxErr) {
		t.Fatalf("expected IndexedConversionError, got %v", err)
	}
	if idxErr.Index != 1 {
		t.Fatalf("index=%d want 1", idxErr.Index)
	}
}

func TestSend_Golden(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	s.RegisterClient("c", okTransport("c", 204, ""))

	if err := s.Send(context.Background(), fetchConfig("c")); err != nil {
		t.Fatalf("Send err: %v", err)
	}
}
