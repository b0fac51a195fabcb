package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zllovesuki/tlsconnector/certgen"
)

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"www.example.com":  "www.example.com",
		"www.example.com.": "www.example.com",
		"bücher.example":   "xn--bcher-kva.example",
		"10.0.0.1":         "10.0.0.1",
		"::1":              "::1",
	}
	for in, want := range cases {
		got, err := normalizeDomain(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := normalizeDomain("bad..example.com")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	leaf, err := certgen.SelfSigned(certgen.Options{DNSNames: []string{"*.example.com"}})
	require.NoError(t, err)
	cert, _, err := leaf.PEM()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "leaf.pem")
	require.NoError(t, os.WriteFile(path, cert, 0o600))

	var out bytes.Buffer
	ok := Check(CheckOpts{Logger: zaptest.NewLogger(t), Cert: path, Domain: "www.example.com", Output: &out})
	assert.True(t, ok)
	assert.Contains(t, out.String(), "san\tDNS:*.example.com")

	out.Reset()
	ok = Check(CheckOpts{Logger: zaptest.NewLogger(t), Cert: path, Domain: "example.com", Output: &out})
	assert.False(t, ok)
	assert.Contains(t, out.String(), "example.com\tfalse")
}

func TestGenCert(t *testing.T) {
	dir := t.TempDir()
	GenCert(GenCertOpts{Logger: zaptest.NewLogger(t), Out: dir, Hosts: []string{"localhost", "127.0.0.1"}})

	for _, name := range []string{"ca.pem", "ca-key.pem", "leaf.pem", "leaf-key.pem"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	leaf, err := readCertificate(filepath.Join(dir, "leaf.pem"))
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost"}, leaf.DNSNames)
	require.Len(t, leaf.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", leaf.IPAddresses[0].String())
}
