package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/application"
	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/response"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

type AuthHandler struct {
	Svc            *application.AccountService
	AvatarMaxBytes int64
	log            *logrus.Entry
}

func NewAuthHandler(svc *application.AccountService, avatarMaxBytes int64, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, AvatarMaxBytes: avatarMaxBytes, log: helpers.Component(logger, "auth_handler")}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register accepts JSON or a multipart form with an optional avatar file.
func (h *AuthHandler) Register(c *gin.Context) {
	var (
		req    registerRequest
		avatar *entity.Upload
	)
	if isMultipart(c) {
		if err := parseMultipart(c, h.AvatarMaxBytes); err != nil {
			response.FromError(c, h.log, err)
			return
		}
		if err := c.ShouldBind(&req); err != nil {
			response.Abort(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
			return
		}
		up, err := readUpload(c, h.AvatarMaxBytes)
		if err != nil {
			response.FromError(c, h.log, err)
			return
		}
		avatar = up
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, avatar)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, res, "registration successful")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, response.CodeValidation, "email and password are required", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, apperror.ErrUnauthorized) {
		response.Abort(c, http.StatusBadRequest, response.CodeInvalidCredentials, "invalid credentials", nil)
		return
	}
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, res, "login successful")
}
