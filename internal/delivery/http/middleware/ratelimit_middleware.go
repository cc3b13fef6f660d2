package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"clinic-staffing/pkg/response"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles per client IP. Stale limiters are
// evicted so the map does not grow without bound.
type RateLimitMiddleware struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimitMiddleware(rps float64, burst int) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go m.cleanup()
	return m
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !m.limiter(ip).Allow() {
			response.TooManyRequests(w, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) limiter(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitMiddleware) cleanup() {
	for range time.Tick(time.Minute) {
		m.mu.Lock()
		for ip, v := range m.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(m.visitors, ip)
			}
		}
		m.mu.Unlock()
	}
}
