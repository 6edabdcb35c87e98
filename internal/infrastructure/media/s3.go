package media

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

// S3Config points the store at AWS or any S3-compatible endpoint (MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	MaxBytes  int64
}

type S3Store struct {
	client   *s3.Client
	bucket   string
	maxBytes int64
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{client: client, bucket: c.Bucket, maxBytes: c.MaxBytes}, nil
}

var _ repository.MediaStore = (*S3Store)(nil)

func (s *S3Store) Store(ctx context.Context, u entity.Upload) (string, error) {
	ct, err := ValidateUpload(u, s.maxBytes)
	if err != nil {
		return "", err
	}
	ref := newRef()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectPrefix + ref),
		Body:          bytes.NewReader(u.Data),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(u.Data))),
	})
	if err != nil {
		return "", apperror.Storage("store image", err)
	}
	return ref, nil
}

func (s *S3Store) Retrieve(ctx context.Context, ref string) (*entity.Blob, error) {
	if !validRef(ref) {
		return nil, apperror.NotFound("image", ref)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPrefix + ref),
	})
	if isMissing(err) {
		return nil, apperror.NotFound("image", ref)
	}
	if err != nil {
		return nil, apperror.Storage("retrieve image", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperror.Storage("retrieve image", err)
	}
	return &entity.Blob{Ref: ref, Data: data, ContentType: aws.ToString(out.ContentType)}, nil
}

// Delete checks existence first: S3 deletes succeed for missing keys.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if !validRef(ref) {
		return apperror.NotFound("image", ref)
	}
	key := aws.String(objectPrefix + ref)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: key})
	if isMissing(err) {
		return apperror.NotFound("image", ref)
	}
	if err != nil {
		return apperror.Storage("delete image", err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return apperror.Storage("delete image", err)
	}
	return nil
}

func isMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
