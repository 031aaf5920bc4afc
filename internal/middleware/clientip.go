package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// IPExtractor decides where c.RealIP comes from. Without trusted proxies the
// TCP peer address is used and forwarding headers are ignored. With proxies,
// X-Forwarded-For is walked from the right, skipping only the listed ranges.
func IPExtractor(trustedProxies []*net.IPNet) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trustedProxies {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
