package media

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
)

const objectPrefix = "avatars/"

type GCSStore struct {
	client   *storage.Client
	bucket   string
	maxBytes int64
}

func NewGCSStore(client *storage.Client, bucket string, maxBytes int64) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, maxBytes: maxBytes}
}

var _ repository.MediaStore = (*GCSStore)(nil)

func (s *GCSStore) Store(ctx context.Context, u entity.Upload) (string, error) {
	ct, err := ValidateUpload(u, s.maxBytes)
	if err != nil {
		return "", err
	}
	ref := newRef()
	if err := helpers.UploadObject(ctx, s.client, s.bucket, objectPrefix+ref, ct, u.Data); err != nil {
		return "", apperror.Storage("store image", err)
	}
	return ref, nil
}

func (s *GCSStore) Retrieve(ctx context.Context, ref string) (*entity.Blob, error) {
	if !validRef(ref) {
		return nil, apperror.NotFound("image", ref)
	}
	data, ct, err := helpers.ReadObject(ctx, s.client, s.bucket, objectPrefix+ref)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, apperror.NotFound("image", ref)
	}
	if err != nil {
		return nil, apperror.Storage("retrieve image", err)
	}
	return &entity.Blob{Ref: ref, Data: data, ContentType: ct}, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	if !validRef(ref) {
		return apperror.NotFound("image", ref)
	}
	err := helpers.DeleteObject(ctx, s.client, s.bucket, objectPrefix+ref)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return apperror.NotFound("image", ref)
	}
	if err != nil {
		return apperror.Storage("delete image", err)
	}
	return nil
}
