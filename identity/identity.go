// Package identity decides whether a certificate was issued for the name a
// client meant to reach, following RFC 6125 with the NSS wildcard rules.
//
// A certificate's identity is either its subjectAltName entries or, when the
// extension is absent or carries no entries at all, the first subject common
// name. A subjectAltName extension that has entries, even none of them DNS or
// IP, always wins over the common name.
package identity

import (
	"unicode/utf8"
)

// Set is the identity view of one certificate. Exactly one of SANs or
// CommonName is meaningful, as reported by FromSAN.
type Set struct {
	SANs       []GeneralName
	CommonName string

	fromSAN bool
	hasCN   bool
}

// FromSAN reports whether the set came from the subjectAltName extension.
func (s Set) FromSAN() bool {
	return s.fromSAN
}

// HasCommonName reports whether a usable fallback common name was found.
func (s Set) HasCommonName() bool {
	return !s.fromSAN && s.hasCN
}

// Empty reports whether the set carries no identity at all.
func (s Set) Empty() bool {
	return !s.fromSAN && !s.hasCN
}

// Extract builds the identity set of c.
func Extract(c Certificate) Set {
	if names, ok := c.SubjectAltNames(); ok && len(names) > 0 {
		return Set{SANs: names, fromSAN: true}
	}

	for _, entry := range c.SubjectName() {
		if !entry.OID.Equal(oidCommonName) {
			continue
		}
		if !utf8.Valid(entry.Data) {
			return Set{}
		}
		return Set{CommonName: string(entry.Data), hasCN: true}
	}
	return Set{}
}
