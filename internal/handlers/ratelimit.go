package handlers

import (
	"net"
	"net/http"
	"strings"
)

// RateLimiter guards endpoints that are cheap to call and expensive to abuse.
type RateLimiter interface {
	Allow(key string) bool
}

// allowRequest keys the limiter on "<scope>:<client ip>" so different guarded
// endpoints do not share a bucket. A nil limiter disables the guard.
func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	key := clientIP(r)
	if scope != "" {
		key = scope + ":" + key
	}
	return limiter.Allow(key)
}

func clientIP(r *http.Request) string {
	// Trust the first hop recorded by a fronting proxy when present.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	return remote
}
