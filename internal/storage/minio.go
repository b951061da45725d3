package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"

	"lapor-warga/internal/config"
)

type MinIOStore struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOStore(client *minio.Client, cfg *config.Config) *MinIOStore {
	return &MinIOStore{client: client, cfg: cfg}
}

func (s *MinIOStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.MinIOBucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *MinIOStore) publicURL(key string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	u := url.URL{Path: "/" + s.cfg.MinIOBucket + "/" + key}
	return fmt.Sprintf("%s://%s%s", scheme, s.cfg.MinIOPublicEndpoint, u.EscapedPath())
}
