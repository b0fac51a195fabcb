package identity

import (
	"crypto/x509"
)

// Verify reports whether set satisfies domain.
func Verify(domain string, set Set) bool {
	ip, isIP := ParseIP(domain)

	switch {
	case set.FromSAN():
		for _, name := range set.SANs {
			if isIP {
				if actual, ok := name.IPAddress(); ok && MatchIP(ip, actual) {
					return true
				}
				continue
			}
			if pattern, ok := name.DNSName(); ok && MatchDNS(pattern, domain) {
				return true
			}
		}
		return false

	case set.HasCommonName():
		// a common name holding an IP has no special encoding, and never
		// takes part in wildcard matching
		if isIP {
			cn, ok := ParseIP(set.CommonName)
			return ok && cn == ip
		}
		return MatchDNS(set.CommonName, domain)

	default:
		return false
	}
}

// VerifyCertificate extracts the identity of cert and checks it against domain.
func VerifyCertificate(domain string, cert Certificate) bool {
	return Verify(domain, Extract(cert))
}

// VerifyX509 is VerifyCertificate for a parsed x509 certificate.
func VerifyX509(domain string, cert *x509.Certificate) bool {
	if cert == nil {
		return false
	}
	return VerifyCertificate(domain, FromX509(cert))
}
