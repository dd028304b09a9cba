package s3client

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Request is the wire form of an s3:// descriptor: one object
// operation plus its prepared SDK input.
type S3Request struct {
	Operation string // "get", "put", "delete", "list"
	Bucket    string
	Key       string

	Body        []byte
	Prefix      string
	ContentType string

	ExtraOpts map[string]any
	Headers   map[string]string

	// Deterministic prepared AWS inputs (built after middleware)
	PutInput    *s3.PutObjectInput
	GetInput    *s3.GetObjectInput
	DeleteInput *s3.DeleteObjectInput
	ListInput   *s3.ListObjectsV2Input
}

// Finalize builds the deterministic AWS SDK input struct for the operation.
// Call this exactly once after middleware has run and before executing.
func (r *S3Request) Finalize() error {
	r.PutInput = nil
	r.GetInput = nil
	r.DeleteInput = nil
	r.ListInput = nil

	switch r.Operation {
	case "get":
		r.GetInput = &s3.GetObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
		}
		return nil

	case "put":
		in := &s3.PutObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
			Body:   bytes.NewReader(r.Body),
		}
		if r.ContentType != "" {
			in.ContentType = aws.String(r.ContentType)
		}

		// Convention: ExtraOpts["metadata"] can be map[string]string
		// or map[string]any with string values.
		if md, ok := extractStringMap(r.ExtraOpts, "metadata"); ok && len(md) > 0 {
			in.Metadata = md
		}
		if v, ok := r.ExtraOpts["cache_control"].(string); ok && v != "" {
			in.CacheControl = aws.String(v)
		}

		r.PutInput = in
		return nil

	case "delete":
		r.DeleteInput = &s3.DeleteObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
		}
		return nil

	case "list":
		r.ListInput = &s3.ListObjectsV2Input{
			Bucket: aws.String(r.Bucket),
		}
		if r.Prefix != "" {
			r.ListInput.Prefix = aws.String(r.Prefix)
		}
		return nil

	default:
		return fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}

// extractStringMap reads extra[key] as either map[string]string or
// map[string]any with string values.
func extractStringMap(extra map[string]any, key string) (map[string]string, bool) {
	raw, ok := extra[key]
	if !ok || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true

	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				continue
			}
			out[k] = s
		}
		return out, true

	default:
		return nil, false
	}
}
