// Package media holds the avatar blob stores. Every backend validates an
// upload with ValidateUpload before writing anything.
package media

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

// DefaultMaxBytes caps avatar uploads when no limit is configured.
const DefaultMaxBytes int64 = 5 << 20

const uploadField = "avatar"

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateUpload rejects empty, oversized and non-image payloads. Both the
// declared content type and the type sniffed from the bytes must be allowed
// and must agree. It returns the canonical content type to store.
func ValidateUpload(u entity.Upload, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(u.Data) == 0 {
		return "", apperror.Validation(uploadField, "avatar is empty")
	}
	if int64(len(u.Data)) > maxBytes {
		return "", apperror.Validation(uploadField, fmt.Sprintf("avatar exceeds %d bytes", maxBytes))
	}

	declared := canonicalType(u.ContentType)
	if !allowedTypes[declared] {
		return "", apperror.Validation(uploadField, "avatar must be a jpeg, png, gif or webp image")
	}
	sniffed := canonicalType(mimetype.Detect(u.Data).String())
	if !allowedTypes[sniffed] {
		return "", apperror.Validation(uploadField, "avatar content is not a supported image")
	}
	if sniffed != declared {
		return "", apperror.Validation(uploadField, "avatar content does not match its declared type")
	}
	return sniffed, nil
}

func canonicalType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	if mt == "image/jpg" || mt == "image/pjpeg" {
		return "image/jpeg"
	}
	return mt
}

func newRef() string {
	return uuid.NewString()
}

// validRef guards object keys built from client-supplied refs.
func validRef(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil
}
