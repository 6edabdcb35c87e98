package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-account/internal/interface/http"
)

// AuthModule exposes the public credential endpoints:
// POST /register, POST /login
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
}
