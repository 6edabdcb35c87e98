package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/response"
)

type MediaHandler struct {
	Media repository.MediaStore
	log   *logrus.Entry
}

func NewMediaHandler(media repository.MediaStore, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{Media: media, log: helpers.Component(logger, "media_handler")}
}

// GetImage serves a stored avatar. Refs never change content, so responses
// are cacheable indefinitely.
func (h *MediaHandler) GetImage(c *gin.Context) {
	blob, err := h.Media.Retrieve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
