package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newRateLimitRouter(r rate.Limit, b int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	eng := gin.New()
	eng.Use(RateLimit(r, b))
	eng.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return eng
}

func hit(eng *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	w := httptest.NewRecorder()
	eng.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_Burst(t *testing.T) {
	eng := newRateLimitRouter(0.001, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(eng, "10.0.1.1"), "request %d should be allowed", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(eng, "10.0.1.1"))
}

func TestRateLimit_PerIP(t *testing.T) {
	eng := newRateLimitRouter(0.001, 1)
	assert.Equal(t, http.StatusOK, hit(eng, "10.1.1.1"))
	assert.Equal(t, http.StatusOK, hit(eng, "10.1.1.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(eng, "10.1.1.1"))
}

func TestRateLimit_Disabled(t *testing.T) {
	eng := newRateLimitRouter(0, 0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(eng, "10.2.2.2"))
	}
}
