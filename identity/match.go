package identity

import (
	"bytes"
	"net/netip"
	"strings"
)

const acePrefix = "xn--"

// MatchDNS reports whether the certificate name pattern matches hostname.
// One trailing dot is stripped from both sides. Comparison is byte for byte;
// no case folding is done.
func MatchDNS(pattern, hostname string) bool {
	pattern = strings.TrimSuffix(pattern, ".")
	hostname = strings.TrimSuffix(hostname, ".")

	if matched, ok := MatchWildcard(pattern, hostname); ok {
		return matched
	}
	return pattern == hostname
}

// MatchWildcard matches a pattern carrying a '*' in its first label against
// hostname. applicable is false when wildcard rules don't apply to the pair and
// the caller should fall back to an exact comparison.
func MatchWildcard(pattern, hostname string) (matched, applicable bool) {
	// internationalized names never take part in wildcards
	if strings.HasPrefix(pattern, acePrefix) {
		return false, false
	}

	wildcard := strings.IndexByte(pattern, '*')
	if wildcard < 0 {
		return false, false
	}

	labelEnd := strings.IndexByte(pattern, '.')
	if labelEnd < 0 {
		return false, false
	}

	// no "*.com": the pattern needs at least two dots. This doesn't rule out
	// "*.co.uk" and friends, same as NSS.
	if strings.IndexByte(pattern[labelEnd+1:], '.') < 0 {
		return false, false
	}

	if wildcard > labelEnd {
		return false, false
	}

	hostLabelEnd := strings.IndexByte(hostname, '.')
	if hostLabelEnd < 0 {
		return false, false
	}

	if pattern[labelEnd:] != hostname[hostLabelEnd:] {
		return false, true
	}

	prefix := pattern[:wildcard]
	suffix := pattern[wildcard+1 : labelEnd]
	label := hostname[:hostLabelEnd]

	if !strings.HasPrefix(label, prefix) {
		return false, true
	}
	if !strings.HasSuffix(label[len(prefix):], suffix) {
		return false, true
	}
	return true, true
}

// MatchIP compares expected with the raw octets of a subjectAltName iPAddress
// entry. There is no prefix matching.
func MatchIP(expected netip.Addr, actual []byte) bool {
	return bytes.Equal(expected.AsSlice(), actual)
}

// ParseIP classifies domain as an IP literal. Zoned IPv6 addresses and
// anything else that fails to parse are not IPs.
func ParseIP(domain string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(domain)
	if err != nil || addr.Zone() != "" {
		return netip.Addr{}, false
	}
	return addr, true
}
