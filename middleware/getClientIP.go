package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxyHeaders are checked in order; the first usable value wins.
var proxyHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// getClientIP resolves the originating address for rate limiting, preferring
// the proxy headers set by the CDN in front of the API.
func getClientIP(c *gin.Context) string {
	for _, header := range proxyHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may carry a chain; the first entry is the client.
		if i := strings.IndexByte(value, ','); i >= 0 {
			value = value[:i]
		}
		if ip := strings.TrimSpace(value); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
