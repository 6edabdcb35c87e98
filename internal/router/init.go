package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/lingo-account/internal/application"
	"github.com/oksasatya/lingo-account/internal/container"
	handlers "github.com/oksasatya/lingo-account/internal/interface/http"
	"github.com/oksasatya/lingo-account/internal/interface/middleware"
	"github.com/oksasatya/lingo-account/internal/router/modules"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

// New builds the gin engine: global middleware plus every module wired from c.
func New(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:  c.Config.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if c.Config.DebugMetricsEnabled {
		r.Use(middleware.Metrics())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules wires handlers from the container and registers their modules.
func InitModules(r *Registry, c *container.Container) {
	deps := c.Deps()
	accounts := application.NewAccountService(deps)
	profiles := application.NewProfileService(deps)
	auth := middleware.Auth(c.JWT, c.Accounts, c.Logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(accounts, c.Config.AvatarMaxBytes, c.Logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(profiles, c.Config.AvatarMaxBytes, c.Logger), auth))
	r.Add(modules.NewMediaModule(handlers.NewMediaHandler(c.Media, c.Logger)))
	r.Add(modules.NewDebugModule(c.Config.DebugMetricsEnabled))
}
