package dto

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Converter turns a decoded JSON object into a concrete value.
type Converter func(map[string]any) (any, error)

// ConverterRegistry maps type tags to converters. Registration is
// expected at initialization time; lookups during live traffic are
// read-only and safe for concurrent use.
type ConverterRegistry struct {
	mu    sync.RWMutex
	byTag map[string]Converter
}

func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{byTag: make(map[string]Converter)}
}

func (r *ConverterRegistry) Register(tag string, fn Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[tag] = fn
}

func (r *ConverterRegistry) Lookup(tag string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.byTag[tag]
	return fn, ok
}

// TypeTag derives the stable registry key for T.
func TypeTag[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// RegisterAs registers a typed converter for T under its type tag.
func RegisterAs[T any](r *ConverterRegistry, fn func(map[string]any) (T, error)) {
	r.Register(TypeTag[T](), func(raw map[string]any) (any, error) {
		return fn(raw)
	})
}

// ConvertAs decodes a JSON body into T. A registered converter for T
// wins; otherwise the body is unmarshaled directly into T, and a shape
// mismatch surfaces as a ConversionError rather than a mistyped value.
func ConvertAs[T any](r *ConverterRegistry, body []byte) (T, error) {
	var zero T
	tag := TypeTag[T]()

	if r != nil {
		if fn, ok := r.Lookup(tag); ok {
			var raw map[string]any
			if err := json.Unmarshal(body, &raw); err != nil {
				return zero, &ConversionError{Tag: tag, Err: err}
			}
			v, err := fn(raw)
			if err != nil {
				return zero, &ConversionError{Tag: tag, Err: err}
			}
			out, ok := v.(T)
			if !ok {
				return zero, &ConversionError{Tag: tag, Err: fmt.Errorf("converter produced %T", v)}
			}
			return out, nil
		}
	}

	if err := json.Unmarshal(body, &zero); err != nil {
		return zero, &ConversionError{Tag: tag, Err: err}
	}
	return zero, nil
}

// ConvertListAs decodes a JSON array body into []T, applying T's
// registered converter element-wise. The first failing element aborts
// with an IndexedConversionError naming its position.
func ConvertListAs[T any](r *ConverterRegistry, body []byte) ([]T, error) {
	tag := TypeTag[T]()

	var fn Converter
	if r != nil {
		fn, _ = r.Lookup(tag)
	}
	if fn == nil {
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, &ConversionError{Tag: "[]" + tag, Err: err}
		}
		return out, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, &ConversionError{Tag: "[]" + tag, Err: err}
	}

	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var raw map[string]any
		if err := json.Unmarshal(elem, &raw); err != nil {
			return nil, &IndexedConversionError{Index: i, Err: err}
		}
		v, err := fn(raw)
		if err != nil {
			return nil, &IndexedConversionError{Index: i, Err: err}
		}
		typed, ok := v.(T)
		if !ok {
			return nil, &IndexedConversionError{Index: i, Err: fmt.Errorf("converter produced %T", v)}
		}
		out = append(out, typed)
	}
	return out, nil
}
