package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per remote address. RPS <= 0
// disables limiting entirely.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	return &limiterPool{rps: rps, burst: burst}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	burst := p.burst
	if burst <= 0 {
		burst = 200
	}
	l := rate.NewLimiter(rate.Limit(p.rps), burst)
	p.m[key] = l
	return l
}

// Allow reports whether the peer identified by key may issue one more
// command now.
func (p *limiterPool) Allow(key string) bool {
	if p == nil || p.rps <= 0 {
		return true
	}
	return p.get(key).Allow()
}

// Forget drops the bucket for a departed peer.
func (p *limiterPool) Forget(key string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
}
