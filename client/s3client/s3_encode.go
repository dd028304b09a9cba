package s3client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joy-dx/netpipe/dto"
)

// Encode maps a descriptor onto an object operation. The descriptor's
// resolved URL must use the s3 scheme: the host is the bucket, the
// path is the key. A GET with an empty key becomes a list; a "prefix"
// query parameter narrows it.
func (c *S3Client) Encode(ctx context.Context, d *dto.Descriptor) (any, error) {
	if d == nil {
		return nil, dto.ErrNilDescriptor
	}

	u, err := d.ResolveURL()
	if err != nil {
		return nil, err
	}
	if u.Scheme != "s3" {
		return nil, fmt.Errorf("%w: s3 client requires s3:// urls, got %q", dto.ErrInvalidURL, u.Scheme)
	}

	r := &S3Request{
		Bucket:    u.Host,
		Key:       strings.TrimPrefix(u.Path, "/"),
		ExtraOpts: make(map[string]any),
		Headers:   d.MergedHeaders(ctx, nil),
	}

	switch d.Method {
	case http.MethodGet, "":
		if r.Key == "" {
			r.Operation = "list"
			if params, ok := d.Task.(dto.ParamsTask); ok {
				if prefix, ok := params.Params["prefix"]; ok {
					r.Prefix = fmt.Sprintf("%v", prefix)
				}
			}
		} else {
			r.Operation = "get"
		}

	case http.MethodPut, http.MethodPost:
		r.Operation = "put"
		switch task := d.Task.(type) {
		case dto.JSONBodyTask:
			buf, err := json.Marshal(task.Body)
			if err != nil {
				return nil, &dto.ConversionError{Tag: "request body", Err: err}
			}
			r.Body = buf
			r.ContentType = "application/json"
		case dto.UploadFileTask:
			data, err := os.ReadFile(task.Path)
			if err != nil {
				return nil, fmt.Errorf("%w: upload source %q: %v", dto.ErrInvalidURL, task.Path, err)
			}
			r.Body = data
		case nil, dto.PlainTask:
			// empty object
		default:
			return nil, fmt.Errorf("unsupported task type %T for s3 put", d.Task)
		}

	case http.MethodDelete:
		r.Operation = "delete"

	default:
		return nil, fmt.Errorf("unsupported method %q for s3 client", d.Method)
	}

	return r, nil
}
