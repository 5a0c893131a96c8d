package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
)

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimit is a token-bucket limiter keyed by client IP. rate is tokens per
// second, burst the bucket capacity. Stale buckets are pruned lazily.
func RateLimit(rate float64, burst float64) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	lastPrune := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastPrune) > 10*time.Minute {
			for k, b := range buckets {
				if now.Sub(b.lastSeen) > 10*time.Minute {
					delete(buckets, k)
				}
			}
			lastPrune = now
		}

		b, ok := buckets[ip]
		if !ok {
			b = &bucket{tokens: burst}
			buckets[ip] = b
		}
		b.tokens += now.Sub(b.lastSeen).Seconds() * rate
		if b.tokens > burst {
			b.tokens = burst
		}
		b.lastSeen = now

		if b.tokens < 1 {
			mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("demasiadas solicitudes"))
			return
		}
		b.tokens--
		mu.Unlock()

		c.Next()
	}
}
