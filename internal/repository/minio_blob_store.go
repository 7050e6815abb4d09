package repository

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type MinIOConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	PublicURL      string
	ConnectTimeout time.Duration
}

type MinIOBlobStore struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	logger    zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIOBlobStore(cfg MinIOConfig, logger zerolog.Logger) (*MinIOBlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOBlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: cfg.PublicURL,
		logger:    logger,
	}

	// MinIO may still be starting; the bucket is ensured again on first use.
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", cfg.Endpoint).
			Str("bucket", cfg.Bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("Connected to MinIO")

	return store, nil
}

func (s *MinIOBlobStore) ensureBucket(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			time.Sleep(backoff)
			continue
		}

		if !exists {
			if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				time.Sleep(backoff)
				continue
			}
			s.logger.Info().Str("bucket", s.bucket).Msg("Created new bucket")
		}

		s.bucketEnsured = true
		return nil
	}
}

func (s *MinIOBlobStore) Put(ctx context.Context, fileName string, content []byte) (*StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	contentType, ok := ImageContentType(fileName)
	if !ok {
		contentType = "application/octet-stream"
	}
	key := GenerateObjectKey(fileName, time.Now().UTC())

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Str("etag", info.ETag).
		Int("size", len(content)).
		Msg("Image uploaded to MinIO")

	return &StoredObject{
		Key: key,
		URL: objectURL(s.publicURL, s.bucket, key),
	}, nil
}

func (s *MinIOBlobStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("Image deleted from MinIO")

	return nil
}
