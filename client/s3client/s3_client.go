package s3client

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joy-dx/netpipe/dto"
)

// s3API This internal interface abstracts the s3 client for easier testing
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client serves descriptors whose base URL uses the s3:// scheme.
// The bucket is the URL host, the object key is the path; HTTP verbs
// map onto object operations (GET=get/list, PUT/POST=put, DELETE=delete).
type S3Client struct {
	Info   dto.ClientInfo
	cfg    *S3ClientConfig
	client s3API
	mu     sync.RWMutex
}

func NewS3Client(ref string, cfg *S3ClientConfig) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(cfg.Credentials),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{
		cfg:    cfg,
		client: client,
		Info: dto.ClientInfo{
			Name:        "S3 Client",
			Ref:         ref,
			ClientType:  ClientTypeS3,
			Description: "Serves s3:// descriptors via object operations (get, put, list, delete)",
		},
	}, nil
}

func (c *S3Client) Ref() string {
	return c.Info.Ref
}

func (c *S3Client) Type() dto.ClientType {
	return ClientTypeS3
}

// Do executes a previously encoded S3Request.
func (c *S3Client) Do(ctx context.Context, wire any) (dto.Response, error) {
	r, ok := wire.(*S3Request)
	if !ok {
		return dto.Response{}, fmt.Errorf("wire request is not an S3Request")
	}

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, r); err != nil {
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := r.Finalize(); err != nil {
		return dto.Response{}, err
	}

	switch r.Operation {
	case "get":
		return c.doGet(ctx, r)
	case "put":
		return c.doPut(ctx, r)
	case "delete":
		return c.doDelete(ctx, r)
	case "list":
		return c.doList(ctx, r)
	default:
		return dto.Response{}, fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}
