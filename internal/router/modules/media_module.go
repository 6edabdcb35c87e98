package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-account/internal/interface/http"
)

// MediaModule serves stored avatars publicly: GET /image/:ref
type MediaModule struct {
	Handler *handlers.MediaHandler
}

func NewMediaModule(h *handlers.MediaHandler) *MediaModule {
	return &MediaModule{Handler: h}
}

func (m *MediaModule) Register(rg *gin.RouterGroup) {
	rg.GET("/image/:ref", m.Handler.GetImage)
}
