package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nemanja/arhiva-api/internal/config"
)

// S3 stores blobs in an S3-compatible bucket (AWS S3, MinIO, R2, ...).
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 builds a client for a single request. A non-empty token must
// be "accessKey:secretKey" (optionally ":sessionToken") and takes
// precedence over the server-configured credentials, so uploads land
// under the caller's own account when they bring their own keys.
func NewS3(ctx context.Context, cfg config.S3Config, token string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if token != "" {
		parts := strings.SplitN(token, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid storage token format")
		}
		session := ""
		if len(parts) == 3 {
			session = parts[2]
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(parts[0], parts[1], session),
		))
	} else if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required for MinIO and most
			// other S3-compatible services.
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3) Kind() string {
	return "s3"
}

func (s *S3) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

func (s *S3) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
