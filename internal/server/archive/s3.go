// Package archive writes JSON snapshots of microblog tables to S3-compatible
// object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/google/uuid"
)

// putObjectAPI is the part of *s3.Client the exporter uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

// Settings locates the bucket and the credentials used to write to it.
type Settings struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type S3Store struct {
	settings Settings
}

func NewS3Store(s Settings) *S3Store {
	return &S3Store{settings: s}
}

func (s *S3Store) client(ctx context.Context) (putObjectAPI, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.settings.AccessKey,
			s.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.settings.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.settings.BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Put uploads body as a JSON object under key.
func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}

	_, err = c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.settings.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.settings.Bucket, key, err)
	}
	return nil
}

// NewKey returns a fresh object key for a snapshot of table, for example
// "archive/post/2024/10/15/6f1c...json".
func NewKey(table models.Table) string {
	d := now().UTC()
	return fmt.Sprintf("archive/%s/%04d/%02d/%02d/%v.json", table, d.Year(), d.Month(), d.Day(), uuid.New())
}
