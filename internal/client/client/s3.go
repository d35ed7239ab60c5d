package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const stagingPrefix = "staging/"

// S3Config selects the bucket and owner prefix used by S3Dialer.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // custom endpoint (MinIO etc.); enables path-style addressing
	Prefix   string // owner prefix that plays the role of the self destination

	AccessKeyID     string
	SecretAccessKey string
}

// s3API is the subset of *s3.Client the connection uses.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Dialer stores uploads in an S3-compatible bucket. Authorization is the
// bucket being reachable with the configured keys; there is no interactive
// login.
type S3Dialer struct {
	cfg S3Config
}

func NewS3Dialer(cfg S3Config) *S3Dialer {
	return &S3Dialer{cfg: cfg}
}

func (d *S3Dialer) Name() string { return "S3" }

func (d *S3Dialer) Interactive() bool { return false }

func (d *S3Dialer) Connect(ctx context.Context, _ Credentials) (Conn, error) {
	if d.cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if d.cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(d.cfg.Region))
	}
	if d.cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(d.cfg.AccessKeyID, d.cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if d.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(d.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Conn(api, d.cfg), nil
}

type s3Conn struct {
	api    s3API
	bucket string
	prefix string
	closed atomic.Bool
}

func newS3Conn(api s3API, cfg S3Config) *s3Conn {
	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &s3Conn{api: api, bucket: cfg.Bucket, prefix: prefix}
}

func (c *s3Conn) IsAuthorized(ctx context.Context) (bool, error) {
	if c.closed.Load() {
		return false, ErrClosed
	}
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return false, err
	}
	return true, nil
}

func (c *s3Conn) RequestLoginCode(context.Context, string) (LoginToken, error) {
	return LoginToken{}, fmt.Errorf("s3: login code: %w", ErrUnsupported)
}

func (c *s3Conn) SignIn(context.Context, LoginToken, string) error {
	return fmt.Errorf("s3: sign in: %w", ErrUnsupported)
}

func (c *s3Conn) SubmitTwoFactor(context.Context, LoginToken, []byte) error {
	return fmt.Errorf("s3: two-factor: %w", ErrUnsupported)
}

func (c *s3Conn) UploadBlob(ctx context.Context, localPath string) (Media, error) {
	if c.closed.Load() {
		return Media{}, ErrClosed
	}

	f, err := os.Open(localPath)
	if err != nil {
		return Media{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Media{}, err
	}

	key := stagingPrefix + uuid.NewString()
	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(fi.Size()),
	})
	if err != nil {
		return Media{}, err
	}

	return Media{Name: filepath.Base(localPath), Size: fi.Size(), Ref: key}, nil
}

func (c *s3Conn) ResolveSelf(context.Context) (Destination, error) {
	if c.prefix == "" {
		return Destination{}, errors.New("s3: owner prefix is not configured")
	}
	return Destination{ID: c.bucket + "/" + c.prefix, Ref: c.prefix}, nil
}

func (c *s3Conn) Send(ctx context.Context, dst Destination, media Media) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	staged, ok := media.Ref.(string)
	if !ok || !strings.HasPrefix(staged, stagingPrefix) {
		return "", fmt.Errorf("s3: %q was not uploaded through this connection", media.Name)
	}
	prefix, ok := dst.Ref.(string)
	if !ok {
		return "", fmt.Errorf("s3: destination %q is not a prefix", dst.ID)
	}

	// the staging id keeps uploads of the same file name apart
	id := strings.TrimPrefix(staged, stagingPrefix)
	key := path.Join(prefix, id, media.Name)
	// staging keys are uuids, so the copy source needs no escaping
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(key),
		CopySource: aws.String(c.bucket + "/" + staged),
	})
	if err != nil {
		return "", err
	}

	// best effort; a leftover staging object does not affect the delivered one
	_, _ = c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(staged),
	})

	return key, nil
}

func (c *s3Conn) Close() error {
	c.closed.Store(true)
	return nil
}
