package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/internal/domain/repository"
	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/response"
)

const CtxAccountIDKey = "accountID"

// TokenVerifier resolves a bearer token to an account id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth requires "Authorization: Bearer <token>", verifies the token and
// checks that the account it names exists. On success the account id is
// stored in the Gin context; every failure is a 401 with a distinct message.
// accounts may be cached: ids never change and accounts are never deleted.
func Auth(verifier TokenVerifier, accounts repository.AccountRepository, logger *logrus.Logger) gin.HandlerFunc {
	log := helpers.Component(logger, "auth")
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			unauthorized(c, "authorization header required")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(c, "invalid authorization format")
			return
		}

		id, err := verifier.Verify(token)
		if errors.Is(err, helpers.ErrTokenExpired) {
			unauthorized(c, "token expired")
			return
		}
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		a, err := accounts.FindByID(c.Request.Context(), id)
		if errors.Is(err, apperror.ErrNotFound) {
			unauthorized(c, "account not found")
			return
		}
		if err != nil {
			response.FromError(c, log, err)
			return
		}

		c.Set(CtxAccountIDKey, a.ID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, message, nil)
}
