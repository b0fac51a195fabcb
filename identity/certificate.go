package identity

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"net/netip"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidCommonName     = asn1.ObjectIdentifier{2, 5, 4, 3}
)

// Kind tags a subjectAltName entry.
type Kind int

const (
	KindOther Kind = iota
	KindDNS
	KindIP
)

func (k Kind) String() string {
	switch k {
	case KindDNS:
		return "DNS"
	case KindIP:
		return "IP"
	default:
		return "other"
	}
}

// GeneralName is a single subjectAltName entry with its raw value.
type GeneralName struct {
	Kind  Kind
	Value []byte
}

// DNSName returns the entry as a DNS name pattern.
func (n GeneralName) DNSName() (string, bool) {
	if n.Kind != KindDNS {
		return "", false
	}
	return string(n.Value), true
}

// IPAddress returns the raw octets of an iPAddress entry.
func (n GeneralName) IPAddress() ([]byte, bool) {
	if n.Kind != KindIP {
		return nil, false
	}
	return n.Value, true
}

func (n GeneralName) String() string {
	switch n.Kind {
	case KindDNS:
		return "DNS:" + string(n.Value)
	case KindIP:
		if a, ok := netip.AddrFromSlice(n.Value); ok {
			return "IP:" + a.String()
		}
		return "IP:" + hex.EncodeToString(n.Value)
	default:
		return "other:" + hex.EncodeToString(n.Value)
	}
}

// NameEntry is one attribute of a certificate subject, undecoded.
type NameEntry struct {
	OID  asn1.ObjectIdentifier
	Tag  cbasn1.Tag
	Data []byte
}

// Certificate is the read-only view of a certificate the verifier needs.
type Certificate interface {
	// SubjectAltNames returns the entries of the subjectAltName extension in
	// certificate order. ok is false when the extension is absent.
	SubjectAltNames() (names []GeneralName, ok bool)
	// SubjectName returns the subject attributes in certificate order.
	SubjectName() []NameEntry
}

type x509Certificate struct {
	cert *x509.Certificate
}

// FromX509 adapts a parsed certificate. Names are read from the raw DER so
// their order and encoding are preserved.
func FromX509(cert *x509.Certificate) Certificate {
	return x509Certificate{cert: cert}
}

func (c x509Certificate) SubjectAltNames() ([]GeneralName, bool) {
	for _, ext := range c.cert.Extensions {
		if ext.Id.Equal(oidSubjectAltName) {
			return parseGeneralNames(ext.Value), true
		}
	}
	return nil, false
}

func (c x509Certificate) SubjectName() []NameEntry {
	return parseName(c.cert.RawSubject)
}

func parseGeneralNames(der []byte) []GeneralName {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		// undecodable extension still counts as present
		return []GeneralName{{Kind: KindOther, Value: der}}
	}

	var names []GeneralName
	for !seq.Empty() {
		var value cryptobyte.String
		var tag cbasn1.Tag
		if !seq.ReadAnyASN1(&value, &tag) {
			names = append(names, GeneralName{Kind: KindOther, Value: []byte(seq)})
			break
		}
		kind := KindOther
		switch tag {
		case cbasn1.Tag(2).ContextSpecific():
			kind = KindDNS
		case cbasn1.Tag(7).ContextSpecific():
			kind = KindIP
		}
		names = append(names, GeneralName{Kind: kind, Value: []byte(value)})
	}
	return names
}

func parseName(der []byte) []NameEntry {
	input := cryptobyte.String(der)
	var rdns cryptobyte.String
	if !input.ReadASN1(&rdns, cbasn1.SEQUENCE) {
		return nil
	}

	var entries []NameEntry
	for !rdns.Empty() {
		var set cryptobyte.String
		if !rdns.ReadASN1(&set, cbasn1.SET) {
			return entries
		}
		for !set.Empty() {
			var atv cryptobyte.String
			if !set.ReadASN1(&atv, cbasn1.SEQUENCE) {
				return entries
			}
			var oid asn1.ObjectIdentifier
			if !atv.ReadASN1ObjectIdentifier(&oid) {
				return entries
			}
			var value cryptobyte.String
			var tag cbasn1.Tag
			if !atv.ReadAnyASN1(&value, &tag) {
				return entries
			}
			entries = append(entries, NameEntry{OID: oid, Tag: tag, Data: []byte(value)})
		}
	}
	return entries
}
