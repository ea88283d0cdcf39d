// Package upload copies finished archives to S3 compatible object storage
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds S3/MinIO settings
type Config struct {
	Endpoint        string // e.g. "http://localhost:9000" for MinIO; empty uses AWS
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Prefix          string // key prefix, e.g. "reports"
}

// putter is the slice of the s3 client uploads need
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts archives into one bucket
type Uploader struct {
	client putter
	bucket string
	prefix string
	now    func() time.Time
}

// Output describes an uploaded object
type Output struct {
	Bucket     string
	Key        string
	Size       int64
	UploadedAt time.Time
}

// New creates an uploader with static credentials and path style addressing
func New(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("upload: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	return newWithClient(s3.New(opts), cfg), nil
}

func newWithClient(c putter, cfg Config) *Uploader {
	return &Uploader{
		client: c,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		now:    time.Now,
	}
}

// Key builds <prefix>/<site>/<yyyy>/<mm>/<dd>/<uuid>-<file>
func (u *Uploader) Key(site, file string) string {
	parts := []string{}
	if u.prefix != "" {
		parts = append(parts, u.prefix)
	}
	if site != "" {
		parts = append(parts, site)
	}
	parts = append(parts, u.now().UTC().Format("2006/01/02"), uuid.NewString()+"-"+filepath.Base(file))
	return path.Join(parts...)
}

// File uploads the file at p under a key scoped to site
func (u *Uploader) File(ctx context.Context, site, p string) (*Output, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	key := u.Key(site, p)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String("application/zstd"),
		ContentLength: aws.Int64(st.Size()),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to s3: %w", err)
	}
	return &Output{Bucket: u.bucket, Key: key, Size: st.Size(), UploadedAt: u.now()}, nil
}
