package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekplate/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter mounts the handler registrations under /api/v1
func newRouter(register ...func(*gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1")
	for _, fn := range register {
		fn(v1)
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "not found"},
		{"expired draft", service.ErrDraftNotFound, http.StatusNotFound, "draft not found or expired"},
		{"invalid input", fmt.Errorf("%w: title is required", service.ErrInvalidInput), http.StatusBadRequest, "invalid input: title is required"},
		{"completed slot", service.ErrSlotCompleted, http.StatusConflict, "meal slot is already completed"},
		{"free meal", service.ErrFreeMealHasRecipe, http.StatusConflict, "a free meal cannot reference a recipe"},
		{"no parser", service.ErrParserUnavailable, http.StatusServiceUnavailable, "recipe photo parser is not configured"},
		{"no storage", service.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage is not configured"},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })

			w := doJSON(t, r, http.MethodGet, "/", nil)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.msg, decode(t, w)["error"])
		})
	}
}

func TestParseIDRejectsMalformed(t *testing.T) {
	r := gin.New()
	r.GET("/:id", func(c *gin.Context) {
		if _, ok := parseID(c, "id"); ok {
			c.Status(http.StatusOK)
		}
	})

	w := doJSON(t, r, http.MethodGet, "/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/6f1c3f0e-8a4b-4c55-9a4e-0d6c7b1f2a3e", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
