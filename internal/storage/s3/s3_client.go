package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
	"gradeledger/internal/port"
)

type documentStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	maxBytes int64
}

// NewS3Client creates an S3-backed store for raw result documents. Endpoint is
// set for S3-compatible stores such as MinIO, which need path-style addressing.
func NewS3Client(cfg *config.S3Config) (port.ObjectStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &documentStore{
		client:   client,
		uploader: manager.NewUploader(client),
		maxBytes: cfg.MaxFileSizeMB << 20,
	}, nil
}

func (c *documentStore) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.MediaType),
	}
	if input.Fingerprint != "" {
		put.Metadata = map[string]string{"fingerprint": input.Fingerprint}
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}
	result, err := c.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3 upload: %w", err)
	}

	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

// Download reads a whole object. Objects larger than the configured upload
// limit are rejected rather than buffered.
func (c *documentStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3 download %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	defer result.Body.Close()

	body := io.Reader(result.Body)
	if c.maxBytes > 0 {
		body = io.LimitReader(result.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("s3 download read: %w", err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}
