// Package storage is the blob-store port backed by an S3-compatible
// object store. Upload returns the public URL of the stored object.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/config"
	"github.com/studiohaven/cms-api/internal/errs"
)

type BlobStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

func NewMinioStore(cfg config.StorageConfig, logger zerolog.Logger) (BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &minioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		logger:    logger.With().Str("component", "storage").Logger(),
	}, nil
}

func (s *minioStore) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := uuid.New().String() + path.Ext(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", classify(err, "upload "+filename)
	}

	s.logger.Debug().Str("object", objectName).Int64("size", size).Msg("object uploaded")
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}

func (s *minioStore) Delete(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return classify(err, "delete "+objectName)
	}
	return nil
}

// classify splits storage failures into client-origin (bad input,
// mapped to 4xx) and server-origin (store unavailable, aborts the
// calling operation).
func classify(err error, op string) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == 0 {
		return errs.Wrap(errs.KindStorageServer, err, "storage failure: "+op)
	}
	return errs.Wrap(errs.KindStorageClient, err, "storage rejected request: "+op)
}
