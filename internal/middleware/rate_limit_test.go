// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(rl *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	r := rateLimitedRouter(NewIPRateLimiter(rate.Limit(1), 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "203.0.113.7:1234").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "203.0.113.7:1234").Code)
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := rateLimitedRouter(NewIPRateLimiter(rate.Limit(1), 1))

	assert.Equal(t, http.StatusOK, doRequest(r, "203.0.113.7:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "203.0.113.7:1234").Code)

	// A different client has its own budget
	assert.Equal(t, http.StatusOK, doRequest(r, "203.0.113.8:1234").Code)
}
