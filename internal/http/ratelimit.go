package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	requestsPerMinute = 120
	staleClientAge    = 10 * time.Minute
)

// rateLimiter is a simple in-memory per-IP limiter.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{clients: make(map[string]*clientInfo)}
}

// allow reports whether a request from the IP is within the limit, evicting
// stale entries as a side effect so the map stays bounded.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for addr, client := range rl.clients {
		if now.Sub(client.lastRequest) > staleClientAge {
			delete(rl.clients, addr)
		}
	}

	client, exists := rl.clients[ip]
	if !exists || now.Sub(client.lastRequest) > time.Minute {
		rl.clients[ip] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= requestsPerMinute
}

// clientIP resolves the originating address, preferring the first
// X-Forwarded-For hop when it parses as an IP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
