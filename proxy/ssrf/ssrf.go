// Package ssrf implements PopShop's proxy-target safety predicate. It is a
// pure, DNS-free filter over the URL string: defense in depth, not a
// substitute for a network-level egress policy. A host that resolves to a
// blocked range only at DNS time is outside what a string-level check can
// catch; operators with that threat model still need network egress rules.
package ssrf

import (
	"net/url"
	"strconv"
	"strings"
)

var blockedHostLiterals = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// blockedPorts covers sensitive non-web services only; 80/443 stay allowed
// since blocking them would make ordinary proxying impossible.
var blockedPorts = map[string]struct{}{
	"22": {}, "23": {}, "25": {}, "53": {}, "69": {}, "110": {}, "135": {},
	"139": {}, "143": {}, "445": {}, "993": {}, "995": {},
}

// IsValidProxyURL reports whether rawURL is safe to forward a request to.
// Returns false on any parse failure or policy violation.
func IsValidProxyURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	hostLower := strings.ToLower(host)
	if _, blocked := blockedHostLiterals[hostLower]; blocked {
		return false
	}

	if isBlockedIPv4(hostLower) {
		return false
	}
	if isBlockedIPv6Prefix(hostLower) {
		return false
	}

	if port := u.Port(); port != "" {
		if _, blocked := blockedPorts[port]; blocked {
			return false
		}
	}

	return true
}

// isBlockedIPv4 checks dotted-decimal prefixes against the private ranges,
// without performing any DNS resolution: 10.*, 192.168.*, 169.254.*, and
// 172.16.*-172.31.* (second octet in [16,31]).
func isBlockedIPv4(host string) bool {
	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return false
	}
	for _, o := range octets {
		if _, err := strconv.Atoi(o); err != nil {
			return false
		}
	}

	switch octets[0] {
	case "10":
		return true
	case "192":
		return octets[1] == "168"
	case "169":
		return octets[1] == "254"
	case "172":
		second, err := strconv.Atoi(octets[1])
		if err != nil {
			return false
		}
		return second >= 16 && second <= 31
	}
	return false
}

// isBlockedIPv6Prefix checks for the unique-local prefixes fc00:/fd00:.
// Host strings from url.Hostname() for IPv6 literals are already stripped
// of brackets.
func isBlockedIPv6Prefix(host string) bool {
	h := strings.ToLower(host)
	return strings.HasPrefix(h, "fc00:") || strings.HasPrefix(h, "fd00:") ||
		strings.HasPrefix(h, "fc00::") || strings.HasPrefix(h, "fd00::")
}
