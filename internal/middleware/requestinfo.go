package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/diewo77/hotel-backoffice/internal/services"
)

// UserHeader carries the operator name set by the fronting proxy.
const UserHeader = "X-User"

// RequestInfo attaches the caller's identity to the context so services can
// stamp activity entries.
func RequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := services.RequestInfo{
			User:      strings.TrimSpace(r.Header.Get(UserHeader)),
			IP:        ClientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(services.WithRequestInfo(r.Context(), info)))
	})
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
