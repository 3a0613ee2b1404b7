package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/princekumarofficial/tubely-service/internal/config"
)

// S3API is the subset of the S3 client the sink uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores assets in a bucket and hands out public bucket URLs, or CDN
// URLs when a CDN base is configured.
type S3 struct {
	client  S3API
	bucket  string
	region  string
	cdnBase string
}

var _ Sink = (*S3)(nil)

// NewS3 builds a client from the default AWS credential chain, or from the
// static keys in cfg when both are set. A custom endpoint switches to
// path-style addressing for S3-compatible stores.
func NewS3(ctx context.Context, cfg config.S3) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3WithClient(client, cfg.Bucket, cfg.Region, cfg.CDNBase), nil
}

func NewS3WithClient(client S3API, bucket, region, cdnBase string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		region:  region,
		cdnBase: strings.TrimRight(cdnBase, "/"),
	}
}

func (s *S3) Put(ctx context.Context, obj Object, body io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(obj.Key),
		Body:        body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *S3) URL(obj Object) string {
	if s.cdnBase != "" {
		return fmt.Sprintf("%s/%s", s.cdnBase, obj.Key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, obj.Key)
}
