package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/barber-desk/internal/httperr"
)

// limiterIdleTTL is how long a key may stay unused before its limiter is
// dropped. A dropped key starts again with a full burst.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

type rateLimiter struct {
	limiters  sync.Map
	rps       float64
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	l := &rateLimiter{rps: rps, burst: burst, idleTTL: limiterIdleTTL, now: time.Now}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *rateLimiter) get(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	v, ok := l.limiters.Load(key)
	if !ok {
		fresh := &visitor{lim: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		v, _ = l.limiters.LoadOrStore(key, fresh)
	}

	vis := v.(*visitor)
	vis.lastSeen.Store(now.UnixNano())
	return vis.lim
}

// sweep drops idle limiters at most once per idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(k, v any) bool {
		if v.(*visitor).lastSeen.Load() < cutoff {
			l.limiters.Delete(k)
		}
		return true
	})
}

func (l *rateLimiter) size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimit throttles per authenticated user, or per client IP before
// authentication. A non-positive rps disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 5
	}

	return newRateLimiter(rps, burst).handler()
}

func (l *rateLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := c.Get(ContextUserID); ok {
			if uid, ok := id.(uint); ok {
				key = "user:" + uintKey(uid)
			}
		}

		if !l.get(key).Allow() {
			httperr.Abort(c, http.StatusTooManyRequests, "rate_limited", "Muitas requisições. Tente novamente em instantes.")
			return
		}
		c.Next()
	}
}

func uintKey(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
