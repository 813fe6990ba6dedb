package gateway

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ndenisov/imgvault/internal/common"
)

// S3Host stores images in an S3-compatible bucket (MinIO, R2, AWS). The
// object key doubles as the delete credential, mirroring the delete-hash
// contract of the Imgur-style host.
type S3Host struct {
	client    *s3.Client
	bucket    string
	publicURL string
	timeout   time.Duration
}

// S3Options carries the settings needed to reach the bucket.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
	// PublicURL is the base under which stored objects are reachable,
	// e.g. "http://127.0.0.1:9000/vault".
	PublicURL string
	Timeout   time.Duration
}

func NewS3Host(ctx context.Context, opts S3Options) (*S3Host, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Host{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
		timeout:   opts.Timeout,
	}, nil
}

// storageKey spreads objects by date, with a uuid leaf.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (h *S3Host) Upload(ctx context.Context, content []byte) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	key := storageKey()
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	return &UploadResult{
		URL:        h.publicURL + "/" + key,
		DeleteHash: key,
	}, nil
}

func (h *S3Host) Delete(ctx context.Context, deleteHash string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(deleteHash),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}

	return nil
}
