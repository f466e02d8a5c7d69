package export

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appaws "github.com/caredash/caredash/internal/aws"
	appconfig "github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/log"
)

// PutObjectAPI is the part of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts export files under bucket/prefix.
type S3Uploader struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Uploader(client PutObjectAPI, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix}
}

// NewS3UploaderFromConfig builds an uploader from the export settings. It
// returns nil, nil when no bucket is configured.
func NewS3UploaderFromConfig(ctx context.Context, exp appconfig.ExportConfig) (*S3Uploader, error) {
	if exp.S3Bucket == "" {
		return nil, nil
	}
	cfg, err := appaws.NewConfig(ctx, exp)
	if err != nil {
		return nil, err
	}
	return NewS3Uploader(s3.NewFromConfig(cfg), exp.S3Bucket, exp.S3Prefix), nil
}

func (u *S3Uploader) key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload stores body as name and returns its s3:// location.
func (u *S3Uploader) Upload(ctx context.Context, name string, body []byte) (string, error) {
	key := u.key(name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		log.Warn("export upload failed", "bucket", u.bucket, "key", key, "error", err)
		return "", &UploadError{Location: u.location(key), Err: err}
	}
	return u.location(key), nil
}

func (u *S3Uploader) location(key string) string {
	return "s3://" + u.bucket + "/" + key
}

// UploadError is a failed upload. The local file was still written.
type UploadError struct {
	Location string
	Err      error
}

func (e *UploadError) Error() string {
	return "upload to " + e.Location + ": " + appaws.Describe(e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
