package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"hookharbor/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// API is the slice of the S3 client the uploader needs.
type API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Uploader stores objects in a single bucket and maps keys to public URLs.
type Uploader struct {
	client    API
	bucket    string
	publicURL string
}

// NewClient builds an S3 client from the default AWS credential chain.
func NewClient(ctx context.Context, cfg config.S3Config, log zerolog.Logger) (*awss3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws configuration: %w", err)
	}

	log.Info().
		Str("region", cfg.Region).
		Str("bucket", cfg.Bucket).
		Msg("S3 client initialized")

	return awss3.NewFromConfig(awsCfg), nil
}

// NewUploader creates an Uploader for the configured bucket.
func NewUploader(client API, cfg config.S3Config) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// Put stores an object under key and returns its public URL.
func (u *Uploader) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object to s3: %w", err)
	}
	return u.publicURL + "/" + key, nil
}
