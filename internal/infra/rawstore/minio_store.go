package rawstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// MinioStore archives raw provider payloads in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStore constructs the archive adapter.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &MinioStore{client: client, bucket: bucket, logger: logger.With("component", "rawstore.minio")}, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Put uploads the payload and returns a stable reference.
func (s *MinioStore) Put(ctx context.Context, key string, payload []byte) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	reader := bytes.NewReader(payload)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: len(payload) < 5*1024*1024,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

var _ climate.Archive = (*MinioStore)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		raw = parts[0]
	}
	return raw
}
