package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/yugant99/TaylorAI/internal/shared/storage/object"
)

// Store keeps objects in an S3 bucket, optionally under a key prefix.
type Store struct {
	client    *awss3.Client
	presigner *awss3.PresignClient
	bucket    string
	prefix    string
	kmsKeyID  string
}

var _ object.Store = (*Store)(nil)

// New builds an S3-backed store using the default AWS credential chain.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 store: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(cfg)
	return &Store{
		client:    client,
		presigner: awss3.NewPresignClient(client),
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		kmsKeyID:  kmsKeyID,
	}, nil
}

func (s *Store) fullKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &awss3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    strPtr(s.fullKey(key)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = &s.kmsKeyID
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 store: put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    strPtr(s.fullKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("s3 store: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 store: read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    strPtr(s.fullKey(key)),
	})
	if err != nil {
		return fmt.Errorf("s3 store: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    strPtr(s.fullKey(key)),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 store: presign %s: %w", key, err)
	}
	return req.URL, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

func strPtr(s string) *string { return &s }
