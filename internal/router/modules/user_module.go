package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-account/internal/interface/http"
)

// UserModule wires the bearer-protected profile routes:
// GET /user/profile, PUT /user/profile, GET /users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Auth)
	{
		auth.GET("/user/profile", m.Handler.GetProfile)
		auth.PUT("/user/profile", m.Handler.UpdateProfile)
		auth.GET("/users/search", m.Handler.Search)
	}
}
