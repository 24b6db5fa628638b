package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"hostel-admin/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCache_FlushedByMutation(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	hits := 0
	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/rooms", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/rooms", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	assert.JSONEq(t, `{"hits":1}`, serve(r, http.MethodGet, "/rooms?hostelId=1", "").Body.String())
	w := serve(r, http.MethodGet, "/rooms?hostelId=1", "")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	// A different hostel is a different key.
	assert.JSONEq(t, `{"hits":2}`, serve(r, http.MethodGet, "/rooms?hostelId=2", "").Body.String())

	// Failed mutations keep the cache.
	serve(r, http.MethodPost, "/fail", "")
	assert.JSONEq(t, `{"hits":1}`, serve(r, http.MethodGet, "/rooms?hostelId=1", "").Body.String())

	serve(r, http.MethodPost, "/rooms", "")
	assert.JSONEq(t, `{"hits":3}`, serve(r, http.MethodGet, "/rooms?hostelId=1", "").Body.String())
}

func TestCache_InvalidatesOnlyWrittenHostel(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	hits := 0
	r := gin.New()
	r.Use(HostelScope(), Cache(store, time.Minute))
	r.GET("/rooms", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/rooms", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.JSONEq(t, `{"hits":1}`, serve(r, http.MethodGet, "/rooms?hostelId=1", "").Body.String())
	assert.JSONEq(t, `{"hits":2}`, serve(r, http.MethodGet, "/rooms?hostelId=2", "").Body.String())

	serve(r, http.MethodPost, "/rooms?hostelId=2", "")

	w := serve(r, http.MethodGet, "/rooms?hostelId=1", "")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"hits":3}`, serve(r, http.MethodGet, "/rooms?hostelId=2", "").Body.String())
}

func TestFlushOnWrite_DropsEveryHostel(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	hits := 0
	r := gin.New()
	scoped := r.Group("", HostelScope(), Cache(store, time.Minute))
	scoped.GET("/students", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	me := r.Group("/me", FlushOnWrite(store))
	me.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	me.PUT("", func(c *gin.Context) { c.Status(http.StatusOK) })
	me.PUT("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	assert.JSONEq(t, `{"hits":1}`, serve(r, http.MethodGet, "/students?hostelId=1", "").Body.String())
	assert.JSONEq(t, `{"hits":2}`, serve(r, http.MethodGet, "/students?hostelId=2", "").Body.String())

	serve(r, http.MethodGet, "/me", "")
	serve(r, http.MethodPut, "/me/bad", "")
	assert.Equal(t, 2, store.ItemCount())

	serve(r, http.MethodPut, "/me", "")
	assert.Zero(t, store.ItemCount())
	assert.JSONEq(t, `{"hits":3}`, serve(r, http.MethodGet, "/students?hostelId=1", "").Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(0.001), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "").Code)
	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1000", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestClientLimiter_OneBucketPerClient(t *testing.T) {
	l := NewClientLimiter(rate.Limit(1), 1)
	assert.Same(t, l.Limiter("10.0.0.1"), l.Limiter("10.0.0.1"))
	assert.NotSame(t, l.Limiter("10.0.0.1"), l.Limiter("10.0.0.2"))

	ok, _ := l.Reserve("10.0.0.3")
	assert.True(t, ok)
	ok, wait := l.Reserve("10.0.0.3")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
}

func TestAuthenticateAndRole(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := gin.New()
	r.GET("/admin", Authenticate(issuer), RequireRole("ADMIN"), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).Email)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "garbage").Code)

	studentToken, err := issuer.GenerateToken(2, "s@example.com", "STUDENT")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", studentToken).Code)

	adminToken, err := issuer.GenerateToken(1, "a@example.com", "ADMIN")
	require.NoError(t, err)
	w := serve(r, http.MethodGet, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", w.Body.String())
}

func TestHostelScope(t *testing.T) {
	r := gin.New()
	r.GET("/rooms", HostelScope(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"hostel": HostelID(c)})
	})

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/rooms", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/rooms?hostelId=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/rooms?hostelId=0", "").Code)
	w := serve(r, http.MethodGet, "/rooms?hostelId=3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hostel":3}`, w.Body.String())
}
