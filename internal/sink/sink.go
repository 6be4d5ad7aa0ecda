// Package sink stores rendered documents on the local filesystem or in S3.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// PutObjectAPI is the part of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes how to reach the object store. Empty fields fall back to
// the default AWS credential and region chain.
type S3Config struct {
	Region    string
	Endpoint  string // "" for AWS, set for MinIO or LocalStack
	PathStyle bool
	AccessKey string
	SecretKey string
}

// NewS3Client creates an S3 client from cfg
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loaders []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loaders = append(loaders, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// ParseS3URL splits "s3://bucket/key" into its parts. ok is false when dest is
// not an S3 URL.
func ParseS3URL(dest string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(dest, "s3://") {
		return "", "", false, nil
	}
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", true, fmt.Errorf("invalid S3 URL %q: %w", dest, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", true, fmt.Errorf("invalid S3 URL %q: expected s3://bucket/key", dest)
	}
	return u.Host, key, true, nil
}

// Option configures a Sink
type Option func(*Sink)

// WithS3Config sets the settings used to build the S3 client on first upload
func WithS3Config(cfg S3Config) Option {
	return func(s *Sink) {
		s.s3cfg = cfg
	}
}

// WithS3Client uses an existing client instead of building one
func WithS3Client(client PutObjectAPI) Option {
	return func(s *Sink) {
		s.client = client
	}
}

// WithLogger attaches a logger for write events
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sink routes documents to local files or S3 objects by destination
type Sink struct {
	s3cfg  S3Config
	logger *zap.Logger

	mu     sync.Mutex
	client PutObjectAPI
}

// New creates a Sink
func New(opts ...Option) *Sink {
	s := &Sink{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores doc at dest, an "s3://bucket/key" URL or a local path. The
// document is compressed when dest ends in .svgz, .gz, .zst or .br.
func (s *Sink) Save(ctx context.Context, dest string, doc []byte) error {
	if dest == "" {
		return fmt.Errorf("no output destination")
	}

	bucket, key, isS3, err := ParseS3URL(dest)
	if err != nil {
		return err
	}

	body, encoding, err := Encode(dest, doc)
	if err != nil {
		return err
	}

	if isS3 {
		return s.putObject(ctx, bucket, key, body, encoding)
	}
	return s.writeFile(dest, body, encoding)
}

func (s *Sink) writeFile(dest string, body []byte, encoding string) error {
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	s.logger.Debug("document written",
		zap.String("path", dest),
		zap.Int("bytes", len(body)),
		zap.String("encoding", encoding),
	)
	return nil
}

func (s *Sink) putObject(ctx context.Context, bucket, key string, body []byte, encoding string) error {
	client, err := s.s3Client(ctx)
	if err != nil {
		return err
	}

	put := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentType(key)),
	}
	if encoding != EncodingNone {
		put.ContentEncoding = aws.String(encoding)
	}

	if _, err := client.PutObject(ctx, put); err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	s.logger.Debug("document uploaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)),
		zap.String("encoding", encoding),
	)
	return nil
}

func (s *Sink) s3Client(ctx context.Context) (PutObjectAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := NewS3Client(ctx, s.s3cfg)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}
