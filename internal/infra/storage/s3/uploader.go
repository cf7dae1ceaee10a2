package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"quickstay/internal/app/policies"
)

// Uploader stores room images in an S3-compatible bucket. The bucket
// is created on first upload and opened for public reads so the
// returned URLs serve directly.
type Uploader struct {
	bucket     string
	publicBase string
	client     *minio.Client
	logger     *slog.Logger

	initOnce sync.Once
	initErr  error
}

type Config struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

func NewUploader(cfg Config, logger *slog.Logger) (*Uploader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	public := strings.TrimSpace(cfg.PublicEndpoint)
	if public == "" {
		public = endpoint
	}

	return &Uploader{
		bucket:     bucket,
		publicBase: strings.TrimRight(public, "/"),
		client:     client,
		logger:     logger,
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := u.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObject(ctx, u.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	publicURL := fmt.Sprintf("%s/%s/%s", u.publicBase, u.bucket, key)
	if u.logger != nil {
		u.logger.Info("room image uploaded", "bucket", u.bucket, "key", key, "url", publicURL)
	}
	return publicURL, nil
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			u.initErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, u.bucket)
		if err := u.client.SetBucketPolicy(ctx, u.bucket, policy); err != nil {
			u.initErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return u.initErr
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.UploaderPort = (*Uploader)(nil)
