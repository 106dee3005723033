package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies makes c.RealIP() honor X-Real-IP and X-Forwarded-For, but
// only for connections that come from one of the given networks. Rate
// limiting keys on the resulting address.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	var trusted []*net.IPNet
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy CIDR", slog.String("cidr", cidr))
			continue
		}
		trusted = append(trusted, network)
	}
	e.IPExtractor = ipExtractor(trusted)
}

func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	return func(req *http.Request) string {
		direct := peerIP(req.RemoteAddr)
		if !contains(trusted, direct) {
			return direct
		}
		if realIP := strings.TrimSpace(req.Header.Get(echo.HeaderXRealIP)); realIP != "" {
			return realIP
		}
		if xff := req.Header.Get(echo.HeaderXForwardedFor); xff != "" {
			// Leftmost entry is the original client.
			client, _, _ := strings.Cut(xff, ",")
			if client = strings.TrimSpace(client); client != "" {
				return client
			}
		}
		return direct
	}
}

func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func contains(networks []*net.IPNet, ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, n := range networks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
