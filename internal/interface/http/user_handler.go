package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/application"
	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/interface/middleware"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/response"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

type UserHandler struct {
	Svc            *application.ProfileService
	AvatarMaxBytes int64
	log            *logrus.Entry
}

func NewUserHandler(svc *application.ProfileService, avatarMaxBytes int64, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, AvatarMaxBytes: avatarMaxBytes, log: helpers.Component(logger, "user_handler")}
}

// GetProfile reads the account from the store rather than the copy the
// auth middleware resolved, which may come from the cache.
func (h *UserHandler) GetProfile(c *gin.Context) {
	view, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, view, "profile fetched")
}

// UpdateProfile takes a JSON subset of {name,email,bio,socialLinks}, or the
// same fields as a multipart form (socialLinks as JSON text) plus an
// optional avatar file.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id := c.GetString(middleware.CtxAccountIDKey)

	var (
		patch  application.ProfilePatch
		avatar *entity.Upload
		err    error
	)
	if isMultipart(c) {
		patch, avatar, err = h.bindMultipartPatch(c)
		if err != nil {
			response.FromError(c, h.log, err)
			return
		}
	} else if err := c.ShouldBindJSON(&patch); err != nil {
		response.Abort(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}

	view, err := h.Svc.Update(c.Request.Context(), id, patch, avatar)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, view, "profile updated")
}

func (h *UserHandler) bindMultipartPatch(c *gin.Context) (application.ProfilePatch, *entity.Upload, error) {
	var patch application.ProfilePatch
	if err := parseMultipart(c, h.AvatarMaxBytes); err != nil {
		return patch, nil, err
	}
	patch.Name, _ = formValue(c, "name")
	patch.Email, _ = formValue(c, "email")
	patch.Bio, _ = formValue(c, "bio")
	if raw, ok := formValue(c, "socialLinks"); ok && strings.TrimSpace(*raw) != "" {
		var links application.SocialLinksPatch
		if err := json.Unmarshal([]byte(*raw), &links); err != nil {
			return patch, nil, apperror.Validation("socialLinks", "socialLinks must be a JSON object")
		}
		patch.SocialLinks = &links
	}
	avatar, err := readUpload(c, h.AvatarMaxBytes)
	if err != nil {
		return patch, nil, err
	}
	return patch, avatar, nil
}

// Search queries the account directory: GET /users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Abort(c, http.StatusBadRequest, response.CodeValidation, "q is required", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))

	res, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, res, "search results")
}
