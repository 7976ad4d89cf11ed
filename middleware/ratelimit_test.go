package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", LoginRateLimit(3, time.Minute), func(c *gin.Context) {
		c.String(200, "ok")
	})

	do := func() int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// first three attempts pass
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do())
	}
	// fourth is throttled
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestLoginRateLimit_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/login", LoginRateLimit(1, time.Minute), func(c *gin.Context) {
		c.String(200, "ok")
	})

	do := func(addr string) int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1"))
	// a different client is unaffected
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1"))
}
