package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"digital-ledger/config"
)

// UploadAuthorization is phase one of the upload protocol: the client PUTs
// its bytes directly against URL, then reports back via Finalize.
type UploadAuthorization struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStore issues upload authorizations and normalizes finished uploads.
type ObjectStore interface {
	Authorize(ctx context.Context, kind, filename, contentType string) (*UploadAuthorization, error)
	Finalize(ctx context.Context, uploadURL string) (string, error)
}

// S3Store talks to an S3-compatible object store. The API never stores bytes
// itself; clients upload straight to the bucket with presigned URLs.
type S3Store struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	publicBaseURL string
	ttl           time.Duration
}

// NewS3Store creates the store against the configured S3-compatible endpoint.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3URL,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.S3PublicBaseURL, "/"),
		ttl:           time.Duration(cfg.UploadTTLMins) * time.Minute,
	}, nil
}

// Authorize issues a time-limited presigned PUT for a fresh object key.
// Size and MIME constraints must already have been checked via Validate.
func (s *S3Store) Authorize(ctx context.Context, kind, filename, contentType string) (*UploadAuthorization, error) {
	key := fmt.Sprintf("uploads/%s/%s%s", kind, uuid.New().String(), strings.ToLower(path.Ext(filename)))

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, err
	}

	return &UploadAuthorization{
		URL:       req.URL,
		Method:    req.Method,
		Key:       key,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Finalize verifies the uploaded object lives in our bucket, applies the
// public-read policy and returns the canonical public path for the owning
// entity to record.
func (s *S3Store) Finalize(ctx context.Context, uploadURL string) (string, error) {
	key, err := s.keyFromURL(uploadURL)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", err
	}

	return s.publicBaseURL + "/" + key, nil
}

func (s *S3Store) keyFromURL(uploadURL string) (string, error) {
	u, err := url.Parse(uploadURL)
	if err != nil {
		return "", fmt.Errorf("invalid upload url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	// Path-style URLs carry the bucket as the first segment.
	key = strings.TrimPrefix(key, s.bucket+"/")
	if !strings.HasPrefix(key, "uploads/") {
		return "", fmt.Errorf("object %q is outside the upload prefix", key)
	}
	return key, nil
}
