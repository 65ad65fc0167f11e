package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// Store persists moderation evidence objects. Snapshots are written
// before destructive actions so disputes can be resolved after the
// underlying content is gone.
type Store interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetURL(key string) string
}

// Snapshot is the JSON document written for each archived piece of content.
type Snapshot struct {
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Preview     string    `json:"preview"`
	Reason      string    `json:"reason"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// SnapshotKey builds the object key for a content snapshot.
func SnapshotKey(contentType, contentID string) string {
	return fmt.Sprintf("snapshots/%s/%s/%s.json", contentType, contentID, uuid.NewString())
}

// PutSnapshot marshals and stores a snapshot, returning its object key.
func PutSnapshot(ctx context.Context, store Store, snap Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	key := SnapshotKey(snap.ContentType, snap.ContentID)
	if err := store.Put(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// S3Store implements Store against any S3-compatible endpoint
// (Cloudflare R2, MinIO, AWS S3).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// S3Config holds connection configuration for the evidence bucket
type S3Config struct {
	Endpoint        string // empty = default AWS endpoint resolution
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
}

// NewS3Store creates an evidence store backed by an S3-compatible bucket
func NewS3Store(cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		awsconfig.WithRegion("auto"),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}, nil
}

// Put stores an object
func (s *S3Store) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload evidence: %w", err)
	}

	return nil
}

// Get retrieves an object
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	return result.Body, nil
}

// Delete removes an object
func (s *S3Store) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("failed to delete evidence: %w", err)
	}

	return nil
}

// Exists checks whether an object exists
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	_, err := s.client.HeadObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetURL returns the public URL for an archived object
func (s *S3Store) GetURL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
