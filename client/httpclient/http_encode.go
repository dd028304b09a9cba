package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joy-dx/netpipe/dto"
)

// Encode turns a descriptor into a WireRequest. Headers merge as
// service defaults < descriptor headers < auth headers; the auth
// source is queried here so a retry after token refresh sees the new
// credentials.
func (c *HTTPClient) Encode(ctx context.Context, d *dto.Descriptor) (any, error) {
	if d == nil {
		return nil, dto.ErrNilDescriptor
	}

	u, err := d.ResolveURL()
	if err != nil {
		return nil, err
	}

	wire := &WireRequest{
		Method:  d.Method,
		Headers: d.MergedHeaders(ctx, c.defaultHeaders()),
		Pinning: d.Pinning,
	}

	switch task := d.Task.(type) {
	case nil, dto.PlainTask, dto.DownloadTask:
		// empty body, URL and headers pass through

	case dto.ParamsTask:
		q := u.Query()
		for k, v := range task.Params {
			q.Set(k, fmt.Sprintf("%v", v))
		}
		u.RawQuery = q.Encode()

	case dto.JSONBodyTask:
		buf, err := json.Marshal(task.Body)
		if err != nil {
			return nil, &dto.ConversionError{Tag: "request body", Err: err}
		}
		wire.Body = buf
		wire.ContentType = "application/json"
		wire.SetHeader("Content-Length", strconv.Itoa(len(buf)))

	case dto.UploadFileTask:
		data, err := os.ReadFile(task.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: upload source %q: %v", dto.ErrInvalidURL, task.Path, err)
		}
		wire.Body = data
		wire.SetHeader("Content-Length", strconv.Itoa(len(data)))

	case dto.MultipartTask:
		body, contentType, err := buildMultipartBody(task)
		if err != nil {
			return nil, err
		}
		wire.Body = body
		wire.ContentType = contentType
		wire.SetHeader("Content-Length", strconv.Itoa(len(body)))

	case dto.ResumableDownloadTask:
		if task.Offset != nil {
			wire.SetHeader("Range", fmt.Sprintf("bytes=%d-", *task.Offset))
		}

	default:
		return nil, fmt.Errorf("unsupported task type %T", d.Task)
	}

	wire.URL = u.String()
	return wire, nil
}

func (c *HTTPClient) defaultHeaders() map[string]string {
	out := make(map[string]string, len(c.netCfg.ExtraHeaders)+1)
	for k, v := range c.netCfg.ExtraHeaders {
		out[k] = v
	}
	if c.netCfg.UserAgent != "" {
		out["User-Agent"] = c.netCfg.UserAgent
	}
	return out
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildMultipartBody assembles a multipart/form-data body. Parts are
// written in sorted name order so the output is deterministic for a
// given task.
func buildMultipartBody(task dto.MultipartTask) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(task.Parts))
	for name := range task.Parts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch part := task.Parts[name].(type) {
		case dto.BinaryPart:
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(
				`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(name),
				quoteEscaper.Replace(part.Filename),
			))
			if part.MIMEType != "" {
				h.Set("Content-Type", part.MIMEType)
			}
			pw, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("create multipart file part %q: %w", name, err)
			}
			if _, err := pw.Write(part.Data); err != nil {
				return nil, "", fmt.Errorf("write multipart file part %q: %w", name, err)
			}

		case dto.TextPart:
			if err := w.WriteField(name, fmt.Sprintf("%v", part.Value)); err != nil {
				return nil, "", fmt.Errorf("write multipart field %q: %w", name, err)
			}

		default:
			return nil, "", fmt.Errorf("unsupported form part type %T for %q", part, name)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
