package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
)

func TestValidateUpload_AcceptsSupportedImages(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"png", pngBytes, "image/png", "image/png"},
		{"jpeg", jpegBytes, "image/jpeg", "image/jpeg"},
		{"jpg alias", jpegBytes, "image/jpg", "image/jpeg"},
		{"gif", gifBytes, "image/gif", "image/gif"},
		{"webp", webpBytes, "image/webp", "image/webp"},
		{"params ignored", pngBytes, "image/png; charset=binary", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ValidateUpload(entity.Upload{Data: tt.data, ContentType: tt.declared}, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ct)
		})
	}
}

func TestValidateUpload_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		upload entity.Upload
		max    int64
	}{
		{"empty", entity.Upload{ContentType: "image/png"}, 0},
		{"oversize", entity.Upload{Data: pngBytes, ContentType: "image/png"}, 10},
		{"declared text", entity.Upload{Data: pngBytes, ContentType: "text/plain"}, 0},
		{"sniffed text", entity.Upload{Data: []byte("hello, this is not an image"), ContentType: "image/png"}, 0},
		{"mismatch", entity.Upload{Data: gifBytes, ContentType: "image/png"}, 0},
		{"pdf", entity.Upload{Data: []byte("%PDF-1.7\n"), ContentType: "application/pdf"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateUpload(tt.upload, tt.max)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, "avatar", apperror.FieldOf(err))
		})
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	ref, err := s.Store(ctx, entity.Upload{Data: pngBytes, ContentType: "image/png", DeclaredName: "me.png"})
	require.NoError(t, err)
	assert.True(t, validRef(ref))

	b, err := s.Retrieve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, b.Data)
	assert.Equal(t, "image/png", b.ContentType)

	require.NoError(t, s.Delete(ctx, ref))
	_, err = s.Retrieve(ctx, ref)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, ref), apperror.ErrNotFound)
}

func TestMemoryStore_RejectsBeforeWrite(t *testing.T) {
	s := NewMemoryStore(16)
	_, err := s.Store(context.Background(), entity.Upload{Data: pngBytes, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, s.Len())
}

func TestMemoryStore_RefsAreUnique(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref, err := s.Store(ctx, entity.Upload{Data: gifBytes, ContentType: "image/gif"})
		require.NoError(t, err)
		assert.False(t, seen[ref])
		seen[ref] = true
	}
	assert.Equal(t, 20, s.Len())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	data := append([]byte(nil), pngBytes...)

	ref, err := s.Store(ctx, entity.Upload{Data: data, ContentType: "image/png"})
	require.NoError(t, err)
	data[len(data)-1] = 0xAA

	b, err := s.Retrieve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, b.Data)
}
