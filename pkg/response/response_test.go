package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Validation("name", "too short"), http.StatusBadRequest, CodeValidation},
		{apperror.Conflict("email already registered"), http.StatusConflict, CodeConflict},
		{apperror.Unauthorized("invalid token"), http.StatusUnauthorized, CodeUnauthorized},
		{apperror.NotFound("account", "42"), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("wrapped: %w", apperror.Conflict("dup")), http.StatusConflict, CodeConflict},
		{apperror.Storage("insert account", errors.New("disk full")), http.StatusInternalServerError, CodeInternal},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := Classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func fromError(t *testing.T, err error) (int, APIResponse[any]) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")
	FromError(c, nil, err)

	var body APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestFromError_ValidationCarriesDetails(t *testing.T) {
	status, body := fromError(t, apperror.Validation("email", "invalid email format"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "invalid email format", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeValidation, body.Error.Code)
	assert.Equal(t, map[string]string{"email": "invalid email format"}, body.Error.Details)
}

func TestFromError_HidesInternalCause(t *testing.T) {
	status, body := fromError(t, apperror.Storage("insert account", errors.New("pq: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, internalMessage, body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeInternal, body.Error.Code)
	assert.Empty(t, body.Error.Details)
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, http.StatusCreated, gin.H{"id": "1"}, "created")

	var body APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "1", body.Data["id"])
	assert.Nil(t, body.Error)
}

func TestOK_EmptyListKeepsData(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, http.StatusOK, []string{}, "search results")

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "data")
	assert.JSONEq(t, `[]`, string(body["data"]))
}
