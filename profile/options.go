package profile

import (
	"crypto/tls"
	"strings"
)

// Options are protocol and behavior toggles, named after their OpenSSL
// counterparts. Flags crypto/tls has no knob for (compression, SSLv2/3,
// single-use keys) are recorded so callers can inspect them; the engine
// already behaves as if they were set.
type Options uint32

const (
	NoCompression Options = 1 << iota
	NoSSLv2
	NoSSLv3
	NoTLSv1
	NoTLSv1_1
	NoTLSv1_2
	NoTLSv1_3
	SingleDHUse
	SingleECDHUse
	CipherServerPreference
)

var optionNames = []struct {
	o    Options
	name string
}{
	{NoCompression, "NoCompression"},
	{NoSSLv2, "NoSSLv2"},
	{NoSSLv3, "NoSSLv3"},
	{NoTLSv1, "NoTLSv1"},
	{NoTLSv1_1, "NoTLSv1_1"},
	{NoTLSv1_2, "NoTLSv1_2"},
	{NoTLSv1_3, "NoTLSv1_3"},
	{SingleDHUse, "SingleDHUse"},
	{SingleECDHUse, "SingleECDHUse"},
	{CipherServerPreference, "CipherServerPreference"},
}

// Has reports whether every flag in f is set.
func (o Options) Has(f Options) bool {
	return o&f == f
}

func (o Options) String() string {
	var s []string
	for _, n := range optionNames {
		if o.Has(n.o) {
			s = append(s, n.name)
		}
	}
	return strings.Join(s, "|")
}

// Mode are I/O behavior toggles. crypto/tls already behaves this way, so the
// mode is informational.
type Mode uint32

const (
	AutoRetry Mode = 1 << iota
	AcceptMovingWriteBuffer
	EnablePartialWrite
	ReleaseBuffers
)

// Has reports whether every flag in f is set.
func (m Mode) Has(f Mode) bool {
	return m&f == f
}

func (m Mode) String() string {
	var s []string
	for _, n := range []struct {
		m    Mode
		name string
	}{
		{AutoRetry, "AutoRetry"},
		{AcceptMovingWriteBuffer, "AcceptMovingWriteBuffer"},
		{EnablePartialWrite, "EnablePartialWrite"},
		{ReleaseBuffers, "ReleaseBuffers"},
	} {
		if m.Has(n.m) {
			s = append(s, n.name)
		}
	}
	return strings.Join(s, "|")
}

// VerifyMode selects whether the peer's certificate is requested and checked.
type VerifyMode uint8

const (
	VerifyNone VerifyMode = 0
	VerifyPeer VerifyMode = 1 << (iota - 1)
	// VerifyFailIfNoPeerCert only matters on the server side.
	VerifyFailIfNoPeerCert
)

func (v VerifyMode) String() string {
	switch {
	case v&VerifyPeer == 0:
		return "none"
	case v&VerifyFailIfNoPeerCert != 0:
		return "peer|fail-if-no-peer-cert"
	default:
		return "peer"
	}
}

// clientAuth maps the mode onto the server-side knob.
func (v VerifyMode) clientAuth() tls.ClientAuthType {
	switch {
	case v&VerifyPeer == 0:
		return tls.NoClientCert
	case v&VerifyFailIfNoPeerCert != 0:
		return tls.RequireAndVerifyClientCert
	default:
		return tls.VerifyClientCertIfGiven
	}
}

// protocols the engine can negotiate, lowest first.
var protocols = []struct {
	version  uint16
	disabled Options
}{
	{tls.VersionTLS10, NoTLSv1},
	{tls.VersionTLS11, NoTLSv1_1},
	{tls.VersionTLS12, NoTLSv1_2},
	{tls.VersionTLS13, NoTLSv1_3},
}

// versionWindow returns the contiguous range of enabled versions starting at
// the lowest one. A disabled version above it closes the window, so versions
// past a hole are never offered.
func versionWindow(o Options) (lo, hi uint16, err error) {
	i := 0
	for i < len(protocols) && o.Has(protocols[i].disabled) {
		i++
	}
	if i == len(protocols) {
		return 0, 0, ErrNoProtocols
	}
	lo = protocols[i].version
	hi = lo
	for i++; i < len(protocols) && !o.Has(protocols[i].disabled); i++ {
		hi = protocols[i].version
	}
	return lo, hi, nil
}
