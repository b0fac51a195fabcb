package identity

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/zllovesuki/tlsconnector/certgen"
)

type fakeCert struct {
	sans    []GeneralName
	hasSAN  bool
	subject []NameEntry
}

func (f fakeCert) SubjectAltNames() ([]GeneralName, bool) { return f.sans, f.hasSAN }
func (f fakeCert) SubjectName() []NameEntry               { return f.subject }

func dns(name string) GeneralName { return GeneralName{Kind: KindDNS, Value: []byte(name)} }
func ip(s string) GeneralName {
	addr, _ := ParseIP(s)
	return GeneralName{Kind: KindIP, Value: addr.AsSlice()}
}

func cn(value string) NameEntry {
	return NameEntry{OID: oidCommonName, Tag: cbasn1.UTF8String, Data: []byte(value)}
}

func TestVerifySAN(t *testing.T) {
	cert := fakeCert{
		hasSAN:  true,
		sans:    []GeneralName{dns("*.example.com"), dns("example.org"), ip("10.0.0.1"), ip("2001:db8::1")},
		subject: []NameEntry{cn("cn.example.net")},
	}

	accepted := []string{"www.example.com", "example.org", "example.org.", "10.0.0.1", "2001:db8::1"}
	for _, d := range accepted {
		assert.True(t, VerifyCertificate(d, cert), d)
	}

	rejected := []string{"example.com", "a.b.example.com", "cn.example.net", "10.0.0.2", "::ffff:10.0.0.1"}
	for _, d := range rejected {
		assert.False(t, VerifyCertificate(d, cert), d)
	}
}

func TestVerifyIPDomainIgnoresDNSEntries(t *testing.T) {
	cert := fakeCert{hasSAN: true, sans: []GeneralName{dns("10.0.0.1"), dns("*.0.0.1")}}
	assert.False(t, VerifyCertificate("10.0.0.1", cert))

	cert = fakeCert{hasSAN: true, sans: []GeneralName{ip("10.0.0.1")}}
	assert.False(t, VerifyCertificate("one.example.com", cert))
}

func TestSANWithoutUsableEntriesNeverFallsBackToCN(t *testing.T) {
	// present extension with only an email entry
	cert := fakeCert{
		hasSAN:  true,
		sans:    []GeneralName{{Kind: KindOther, Value: []byte("admin@example.com")}},
		subject: []NameEntry{cn("example.com"), cn("10.0.0.1")},
	}
	set := Extract(cert)
	require.True(t, set.FromSAN())
	assert.False(t, set.HasCommonName())
	assert.False(t, VerifyCertificate("example.com", cert))
	assert.False(t, VerifyCertificate("10.0.0.1", cert))
}

func TestEmptySANFallsBackToCN(t *testing.T) {
	cert := fakeCert{hasSAN: true, subject: []NameEntry{cn("example.com")}}
	set := Extract(cert)
	assert.False(t, set.FromSAN())
	assert.True(t, set.HasCommonName())
	assert.True(t, VerifyCertificate("example.com", cert))
}

func TestVerifyCommonName(t *testing.T) {
	wild := fakeCert{subject: []NameEntry{
		{OID: asn1.ObjectIdentifier{2, 5, 4, 10}, Data: []byte("Example Org")},
		cn("*.example.com"),
		cn("other.example.org"),
	}}
	assert.True(t, VerifyCertificate("www.example.com", wild))
	// only the first common name counts
	assert.False(t, VerifyCertificate("other.example.org", wild))

	addr := fakeCert{subject: []NameEntry{cn("10.0.0.1")}}
	assert.True(t, VerifyCertificate("10.0.0.1", addr))
	assert.False(t, VerifyCertificate("10.0.0.2", addr))

	// IP text never goes through wildcard matching
	wildIP := fakeCert{subject: []NameEntry{cn("*.0.0.1")}}
	assert.False(t, VerifyCertificate("10.0.0.1", wildIP))

	notIP := fakeCert{subject: []NameEntry{cn("example.com")}}
	assert.False(t, VerifyCertificate("10.0.0.1", notIP))
}

func TestUndecodableCommonNameRejects(t *testing.T) {
	cert := fakeCert{subject: []NameEntry{{OID: oidCommonName, Data: []byte{0xff, 0xfe, 'a'}}}}
	set := Extract(cert)
	assert.True(t, set.Empty())
	assert.False(t, VerifyCertificate("a", cert))
}

func TestNoIdentityRejects(t *testing.T) {
	cert := fakeCert{subject: []NameEntry{{OID: asn1.ObjectIdentifier{2, 5, 4, 10}, Data: []byte("Org")}}}
	assert.True(t, Extract(cert).Empty())
	assert.False(t, VerifyCertificate("example.com", cert))
	assert.False(t, VerifyX509("example.com", nil))
}

func TestFromX509(t *testing.T) {
	leaf, err := certgen.SelfSigned(certgen.Options{
		CommonName:  "cn.example.net",
		DNSNames:    []string{"*.example.com", "example.org"},
		IPAddresses: []net.IP{net.ParseIP("10.0.0.1")},
	})
	require.NoError(t, err)

	c := FromX509(leaf.Cert)
	names, ok := c.SubjectAltNames()
	require.True(t, ok)
	require.Len(t, names, 3)
	assert.Equal(t, dns("*.example.com"), names[0])
	assert.Equal(t, dns("example.org"), names[1])
	assert.Equal(t, ip("10.0.0.1"), names[2])

	subject := c.SubjectName()
	require.Len(t, subject, 1)
	assert.True(t, subject[0].OID.Equal(oidCommonName))
	assert.Equal(t, "cn.example.net", string(subject[0].Data))

	assert.True(t, VerifyX509("www.example.com", leaf.Cert))
	assert.True(t, VerifyX509("10.0.0.1", leaf.Cert))
	assert.False(t, VerifyX509("cn.example.net", leaf.Cert))
}

func TestFromX509CommonNameOnly(t *testing.T) {
	leaf, err := certgen.SelfSigned(certgen.Options{CommonName: "legacy.example.com"})
	require.NoError(t, err)

	_, ok := FromX509(leaf.Cert).SubjectAltNames()
	require.False(t, ok)
	assert.True(t, VerifyX509("legacy.example.com", leaf.Cert))
	assert.False(t, VerifyX509("other.example.com", leaf.Cert))
}

func TestFromX509EmailOnlySAN(t *testing.T) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.Tag(1).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes([]byte("admin@example.com"))
		})
	})
	der, err := b.Bytes()
	require.NoError(t, err)

	leaf, err := certgen.SelfSigned(certgen.Options{
		CommonName:      "example.com",
		ExtraExtensions: []pkix.Extension{{Id: oidSubjectAltName, Value: der}},
	})
	require.NoError(t, err)

	names, ok := FromX509(leaf.Cert).SubjectAltNames()
	require.True(t, ok)
	require.Len(t, names, 1)
	assert.Equal(t, KindOther, names[0].Kind)

	assert.False(t, VerifyX509("example.com", leaf.Cert))
}

func TestParseGeneralNamesMalformed(t *testing.T) {
	names := parseGeneralNames([]byte{0x30, 0x05, 0x82})
	require.Len(t, names, 1)
	assert.Equal(t, KindOther, names[0].Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "DNS", KindDNS.String())
	assert.Equal(t, "IP", KindIP.String())
	assert.Equal(t, "other", KindOther.String())
}

func TestGeneralNameString(t *testing.T) {
	assert.Equal(t, "DNS:www.example.com", GeneralName{Kind: KindDNS, Value: []byte("www.example.com")}.String())
	assert.Equal(t, "IP:10.0.0.1", GeneralName{Kind: KindIP, Value: []byte{10, 0, 0, 1}}.String())
	assert.Equal(t, "IP:0a00", GeneralName{Kind: KindIP, Value: []byte{10, 0}}.String())
	assert.Equal(t, "other:6869", GeneralName{Kind: KindOther, Value: []byte("hi")}.String())
}
