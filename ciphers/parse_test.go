package ciphers

import (
	"crypto/tls"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(s []Suite) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Name
	}
	return out
}

func TestParseExplicitNames(t *testing.T) {
	got, err := Parse("ECDHE-RSA-AES128-GCM-SHA256:AES128-SHA")
	require.NoError(t, err)
	assert.Equal(t, []string{"ECDHE-RSA-AES128-GCM-SHA256", "AES128-SHA"}, names(got))
}

func TestParseSeparators(t *testing.T) {
	got, err := Parse("AES128-SHA, AES256-SHA DES-CBC3-SHA")
	require.NoError(t, err)
	assert.Equal(t, []string{"AES128-SHA", "AES256-SHA", "DES-CBC3-SHA"}, names(got))
}

func TestParseSkipsUnknownNames(t *testing.T) {
	got, err := Parse("DHE-RSA-AES128-GCM-SHA256:NOT-A-CIPHER:AES128-SHA")
	require.NoError(t, err)
	assert.Equal(t, []string{"AES128-SHA"}, names(got))
}

func TestParseDefaultWithExclusions(t *testing.T) {
	got, err := Parse("DEFAULT:!aNULL:!eNULL:!MD5:!3DES:!DES:!RC4:!IDEA:!SEED:!aDSS:!SRP:!PSK")
	require.NoError(t, err)
	for _, s := range got {
		assert.Zero(t, s.Attrs&(EncRC4|Enc3DES), s.Name)
	}
	assert.Len(t, got, 17)
	assert.Equal(t, "ECDHE-ECDSA-AES128-GCM-SHA256", got[0].Name)
}

func TestParseKillIsPermanent(t *testing.T) {
	got, err := Parse("!RC4:ALL")
	require.NoError(t, err)
	for _, s := range got {
		assert.Zero(t, s.Attrs&EncRC4, s.Name)
	}

	got, err = Parse("-RC4:ALL")
	require.NoError(t, err)
	_, ok := find(got, "RC4-SHA")
	assert.True(t, ok)

	got, err = Parse("ALL:-RC4:RC4-SHA")
	require.NoError(t, err)
	assert.Equal(t, "RC4-SHA", got[len(got)-1].Name)
}

func TestParseTail(t *testing.T) {
	got, err := Parse("AES128-SHA:ECDHE-RSA-AES128-SHA:AES256-SHA:+kRSA")
	require.NoError(t, err)
	assert.Equal(t, []string{"ECDHE-RSA-AES128-SHA", "AES128-SHA", "AES256-SHA"}, names(got))
}

func TestParseIntersection(t *testing.T) {
	got, err := Parse("ECDHE+AESGCM+aRSA")
	require.NoError(t, err)
	assert.Equal(t, []string{"ECDHE-RSA-AES128-GCM-SHA256", "ECDHE-RSA-AES256-GCM-SHA384"}, names(got))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.True(t, errors.Is(err, ErrNoCipherMatch))

	_, err = Parse("aNULL:eNULL")
	assert.True(t, errors.Is(err, ErrNoCipherMatch))

	_, err = Parse("ALL:!RC4:!")
	assert.True(t, errors.Is(err, ErrSyntax))

	_, err = Parse("ECDHE++AESGCM")
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestParseIgnoresDirectives(t *testing.T) {
	got, err := Parse("HIGH:@STRENGTH:@SECLEVEL=2")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	for _, s := range got {
		assert.NotZero(t, s.Attrs&StrengthHigh, s.Name)
	}
}

func TestIDs(t *testing.T) {
	ids, err := IDs("ECDHE-ECDSA-CHACHA20-POLY1305")
	require.NoError(t, err)
	assert.Equal(t, []uint16{tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256}, ids)
}

func TestTableMatchesEngine(t *testing.T) {
	known := map[uint16]bool{}
	for _, s := range tls.CipherSuites() {
		known[s.ID] = true
	}
	for _, s := range tls.InsecureCipherSuites() {
		known[s.ID] = true
	}
	for _, s := range All() {
		assert.True(t, known[s.ID], s.Name)
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("ECDHE-RSA-AES128-GCM-SHA256")
	require.True(t, ok)
	assert.Equal(t, tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, s.ID)
	assert.True(t, s.ForwardSecret())
	assert.True(t, s.AEAD())

	s, ok = Lookup("TLS_RSA_WITH_AES_128_CBC_SHA")
	require.True(t, ok)
	assert.False(t, s.ForwardSecret())
	assert.False(t, s.AEAD())

	_, ok = ByID(tls.TLS_AES_128_GCM_SHA256)
	assert.False(t, ok)
}

func find(list []Suite, name string) (Suite, bool) {
	for _, s := range list {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}
