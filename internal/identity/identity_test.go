package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.GET("/probe", Required(), func(c *gin.Context) {
		seen = GetUserID(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequired(t *testing.T) {
	t.Run("ValidHeader", func(t *testing.T) {
		r, seen := newTestRouter()
		id := uuid.NewString()

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(Header, id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, *seen)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		r, _ := newTestRouter()

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing")
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		r, _ := newTestRouter()

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(Header, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid")
	})
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetUserID(c))
}
