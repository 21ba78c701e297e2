package repository

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

// S3Options configures the object store client. Endpoint and credentials
// are required; ForcePathStyle is needed for MinIO and most self-hosted
// S3-compatible stores.
type S3Options struct {
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	ForcePathStyle bool
}

// S3ObjectStore implements ObjectStore against any S3-compatible endpoint
// (AWS, Backblaze B2, MinIO).
type S3ObjectStore struct {
	client *s3.S3
	bucket string
}

// NewS3ObjectStore builds an S3 session from the options.
func NewS3ObjectStore(opts S3Options) (*S3ObjectStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(opts.Endpoint),
		Region:           aws.String(opts.Region),
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(opts.ForcePathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	return &S3ObjectStore{
		client: s3.New(sess),
		bucket: opts.Bucket,
	}, nil
}

// PutObject performs a single-shot write.
func (s *S3ObjectStore) PutObject(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(body),
		ContentType: aws.String(contentType),
	})
	return err
}

// BeginMultipart starts a multipart session.
func (s *S3ObjectStore) BeginMultipart(ctx context.Context, key, contentType string) (string, error) {
	out, err := s.client.CreateMultipartUploadWithContext(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return aws.StringValue(out.UploadId), nil
}

// UploadPart sends one part and returns the ETag the store acknowledged.
func (s *S3ObjectStore) UploadPart(ctx context.Context, uploadID, key string, partNumber int64, body io.ReadSeeker) (string, error) {
	out, err := s.client.UploadPartWithContext(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int64(partNumber),
		Body:       aws.ReadSeekCloser(body),
	})
	if err != nil {
		return "", err
	}
	return aws.StringValue(out.ETag), nil
}

// CompleteMultipart assembles the parts, listed in increasing part number
// order, into the final object.
func (s *S3ObjectStore) CompleteMultipart(ctx context.Context, uploadID, key string, parts []repository.CompletedPart) error {
	completed := make([]*s3.CompletedPart, len(parts))
	for i, part := range parts {
		completed[i] = &s3.CompletedPart{
			PartNumber: aws.Int64(part.PartNumber),
			ETag:       aws.String(part.ETag),
		}
	}

	_, err := s.client.CompleteMultipartUploadWithContext(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &s3.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	return err
}

// AbortMultipart discards an in-progress session.
func (s *S3ObjectStore) AbortMultipart(ctx context.Context, uploadID, key string) error {
	_, err := s.client.AbortMultipartUploadWithContext(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	return err
}

// PresignGet issues a temporary download URL.
func (s *S3ObjectStore) PresignGet(key string, ttl time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return req.Presign(ttl)
}

// Ping verifies the bucket is reachable with the configured credentials.
func (s *S3ObjectStore) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}
