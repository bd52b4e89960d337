package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("R2 storage not configured")

type R2Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string
}

// R2ConfigFromEnv reads the R2_* variables. Archive is optional, so a
// missing endpoint or bucket yields ErrNotConfigured rather than a failure.
func R2ConfigFromEnv() (R2Config, error) {
	cfg := R2Config{
		Endpoint:   os.Getenv("R2_ENDPOINT"),
		AccessKey:  os.Getenv("R2_ACCESS_KEY"),
		SecretKey:  os.Getenv("R2_SECRET_KEY"),
		Bucket:     os.Getenv("R2_BUCKET_NAME"),
		PublicBase: os.Getenv("R2_PUBLIC_BASE_URL"),
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return cfg, ErrNotConfigured
	}
	return cfg, nil
}

type R2Client struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewR2Client(ctx context.Context, rc R2Config) (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(rc.AccessKey, rc.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(rc.Endpoint)
		o.UsePathStyle = true
	})

	baseURL := rc.PublicBase
	if baseURL == "" {
		baseURL = strings.TrimRight(rc.Endpoint, "/") + "/" + rc.Bucket
	}

	return &R2Client{
		client:  client,
		bucket:  rc.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores body under key and returns its public URL.
func (r *R2Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("r2 upload %s: %w", key, err)
	}

	return r.baseURL + "/" + key, nil
}

// MenuKey is the archive object key for an uploaded menu file.
func MenuKey(ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("menus/%s/%s%s", ownerID, uuid.New().String(), ext)
}
