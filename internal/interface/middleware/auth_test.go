package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/infrastructure/sqlite"
	"github.com/oksasatya/lingo-account/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	id  string
	err error
}

func (s stubVerifier) Verify(string) (string, error) { return s.id, s.err }

type envelope struct {
	Status    int    `json:"status"`
	RequestID string `json:"request_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newAccounts(t *testing.T) *sqlite.AccountRepository {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewAccountRepository(db)
}

func protectedRouter(v TokenVerifier, repo *sqlite.AccountRepository) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(v, repo, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(CtxAccountIDKey)})
	})
	return r
}

func do(r http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Rejections(t *testing.T) {
	repo := newAccounts(t)
	jwt := helpers.NewJWTManager("test-secret-at-least-16-chars!!")
	orphan, _, err := jwt.Issue("no-such-account")
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier TokenVerifier
		header   string
		message  string
	}{
		{"missing header", jwt, "", "authorization header required"},
		{"wrong scheme", jwt, "Basic abc", "invalid authorization format"},
		{"no token", jwt, "Bearer ", "invalid authorization format"},
		{"garbage token", jwt, "Bearer not.a.jwt", "invalid token"},
		{"expired", stubVerifier{err: helpers.ErrTokenExpired}, "Bearer x", "token expired"},
		{"unknown account", jwt, "Bearer " + orphan, "account not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(protectedRouter(tt.verifier, repo), tt.header)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var body envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "unauthorized", body.Error.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestAuth_AcceptsValidBearer(t *testing.T) {
	repo := newAccounts(t)
	a := &entity.Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), a))

	jwt := helpers.NewJWTManager("test-secret-at-least-16-chars!!")
	token, _, err := jwt.Issue(a.ID)
	require.NoError(t, err)

	w := do(protectedRouter(jwt, repo), "bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, a.ID, body["id"])
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	const id = "5f1d7c9e-3b0a-4c55-9d2e-8a6f0b1c2d3e"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, id, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}

func TestRealIP_PrefersProxyHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.2", w.Body.String())
}
