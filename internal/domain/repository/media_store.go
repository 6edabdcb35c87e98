package repository

import (
	"context"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
)

// MediaStore keeps avatar blobs behind opaque refs. Store must only be called
// with an upload that already passed validation; Retrieve and Delete return
// apperror.ErrNotFound for unknown refs.
type MediaStore interface {
	Store(ctx context.Context, up entity.Upload) (string, error)
	Retrieve(ctx context.Context, ref string) (*entity.Blob, error)
	Delete(ctx context.Context, ref string) error
}
