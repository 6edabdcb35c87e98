package media

import (
	"context"
	"sync"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

// MemoryStore keeps blobs in process memory. It backs development and tests;
// everything is lost on restart.
type MemoryStore struct {
	maxBytes int64

	mu    sync.RWMutex
	blobs map[string]entity.Blob
}

func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{maxBytes: maxBytes, blobs: make(map[string]entity.Blob)}
}

var _ repository.MediaStore = (*MemoryStore)(nil)

func (s *MemoryStore) Store(_ context.Context, u entity.Upload) (string, error) {
	ct, err := ValidateUpload(u, s.maxBytes)
	if err != nil {
		return "", err
	}
	data := make([]byte, len(u.Data))
	copy(data, u.Data)

	ref := newRef()
	s.mu.Lock()
	s.blobs[ref] = entity.Blob{Ref: ref, Data: data, ContentType: ct}
	s.mu.Unlock()
	return ref, nil
}

func (s *MemoryStore) Retrieve(_ context.Context, ref string) (*entity.Blob, error) {
	s.mu.RLock()
	b, ok := s.blobs[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("image", ref)
	}
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &entity.Blob{Ref: b.Ref, Data: data, ContentType: b.ContentType}, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[ref]; !ok {
		return apperror.NotFound("image", ref)
	}
	delete(s.blobs, ref)
	return nil
}

// Len reports how many blobs are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
