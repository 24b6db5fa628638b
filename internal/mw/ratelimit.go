package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long a client's bucket survives without requests.
const limiterIdle = 10 * time.Minute

// ClientLimiter keeps one token bucket per client address.
// Buckets of clients that stay quiet for limiterIdle are evicted.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets *cache.Cache
	r       rate.Limit
	b       int
}

func NewClientLimiter(r rate.Limit, b int) *ClientLimiter {
	return &ClientLimiter{
		buckets: cache.New(limiterIdle, 2*limiterIdle),
		r:       r,
		b:       b,
	}
}

// Limiter returns the bucket for key, creating it on first use, and renews its idle timer.
func (l *ClientLimiter) Limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.r, l.b)
	}
	l.buckets.Set(key, limiter, cache.DefaultExpiration)
	return limiter
}

// Reserve takes one token for key. A zero wait means the request may proceed now.
func (l *ClientLimiter) Reserve(key string) (ok bool, wait time.Duration) {
	res := l.Limiter(key).Reserve()
	if !res.OK() {
		return false, 0
	}
	if delay := res.Delay(); delay > 0 {
		// Rejected requests do not spend the token.
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// RateLimiter rejects clients that exceed r requests per second with bursts of b.
// Rejections carry Retry-After in whole seconds.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewClientLimiter(r, b)
	return func(c *gin.Context) {
		ok, wait := limiter.Reserve(c.ClientIP())
		if !ok {
			if wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "too many requests",
				"message": "Too many requests. Please slow down and try again.",
			})
			return
		}
		c.Next()
	}
}
