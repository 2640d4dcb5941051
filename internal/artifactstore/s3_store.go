// Package artifactstore mirrors finished investigation artifacts to an S3
// compatible object store.
package artifactstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"factflow/internal/config"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func ConfigFrom(cfg config.Config) S3Config {
	return S3Config{
		Endpoint:  cfg.ArtifactS3Endpoint,
		Region:    cfg.ArtifactS3Region,
		AccessKey: cfg.ArtifactS3AccessKey,
		SecretKey: cfg.ArtifactS3SecretKey,
		Bucket:    cfg.ArtifactS3Bucket,
		UseSSL:    cfg.ArtifactS3UseSSL,
	}
}

type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucketName: bucket, region: region}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put stores content under <caseFolder>/<name>.
func (s *S3Store) Put(ctx context.Context, caseFolder, name string, content []byte, contentType string) error {
	key, err := ObjectKey(caseFolder, name)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func ObjectKey(caseFolder, name string) (string, error) {
	caseFolder = strings.Trim(strings.TrimSpace(caseFolder), "/")
	name = strings.Trim(strings.TrimSpace(name), "/")
	if caseFolder == "" || name == "" {
		return "", fmt.Errorf("case folder and file name are required")
	}
	if strings.Contains(caseFolder, "..") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid object key %q/%q", caseFolder, name)
	}
	return path.Join(caseFolder, name), nil
}
