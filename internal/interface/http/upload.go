package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
)

// Accepted multipart field names for the avatar file, in lookup order.
var avatarFields = []string{"avatar", "profilePicture", "profileImage"}

// multipartOverhead leaves room for the non-file form fields.
const multipartOverhead = 1 << 20

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parseMultipart bounds the request body before gin parses the form.
func parseMultipart(c *gin.Context, maxBytes int64) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	if err := c.Request.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apperror.Validation("avatar", fmt.Sprintf("avatar exceeds %d bytes", maxBytes))
		}
		return apperror.Validation("payload", "invalid multipart form")
	}
	return nil
}

// readUpload returns the avatar file of an already parsed multipart form, or
// nil when the request carries none.
func readUpload(c *gin.Context, maxBytes int64) (*entity.Upload, error) {
	for _, field := range avatarFields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, apperror.Validation("avatar", "invalid avatar upload")
		}
		return openUpload(fh, maxBytes)
	}
	return nil, nil
}

func openUpload(fh *multipart.FileHeader, maxBytes int64) (*entity.Upload, error) {
	if fh.Size > maxBytes {
		return nil, apperror.Validation("avatar", fmt.Sprintf("avatar exceeds %d bytes", maxBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("avatar", "invalid avatar upload")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperror.Validation("avatar", "invalid avatar upload")
	}
	return &entity.Upload{
		Data:         data,
		ContentType:  fh.Header.Get("Content-Type"),
		DeclaredName: fh.Filename,
	}, nil
}

// formValue reports a multipart text field and whether it was sent at all.
func formValue(c *gin.Context, key string) (*string, bool) {
	if c.Request.MultipartForm == nil {
		return nil, false
	}
	vs, ok := c.Request.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	v := vs[0]
	return &v, true
}
