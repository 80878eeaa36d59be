package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

// DocsAccess decides who may read the generated API documentation
type DocsAccess struct {
	Enabled bool
	// Allowlist holds addresses or CIDR prefixes. Empty allows every client.
	Allowlist []string
	// RequireAuth runs the JWT middleware before serving
	RequireAuth bool
}

// DocsGuard returns the handler placed in front of /swagger. A disabled guard
// answers 404 so the route looks absent.
func DocsGuard(access DocsAccess, jwt gin.HandlerFunc) (gin.HandlerFunc, error) {
	prefixes, err := parseAllowlist(access.Allowlist)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		if !access.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		if len(prefixes) > 0 && !allowed(clientAddr(c), prefixes) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "API documentation is restricted", GetRequestID(c)))
			return
		}
		if access.RequireAuth && jwt != nil {
			if jwt(c); c.IsAborted() {
				return
			}
		}
		c.Next()
	}, nil
}

// parseAllowlist turns bare addresses into single-host prefixes
func parseAllowlist(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid docs allowlist entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid docs allowlist entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// clientAddr prefers gin's proxy-aware ClientIP
func clientAddr(c *gin.Context) netip.Addr {
	if addr, err := netip.ParseAddr(c.ClientIP()); err == nil {
		return addr.Unmap()
	}
	if ap, err := netip.ParseAddrPort(c.Request.RemoteAddr); err == nil {
		return ap.Addr().Unmap()
	}
	return netip.Addr{}
}

func allowed(addr netip.Addr, prefixes []netip.Prefix) bool {
	if !addr.IsValid() {
		return false
	}
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
