package profile

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zllovesuki/tlsconnector/ciphers"
	"github.com/zllovesuki/tlsconnector/engine"
)

func suites(t *testing.T, ids []uint16) []ciphers.Suite {
	t.Helper()
	out := make([]ciphers.Suite, 0, len(ids))
	for _, id := range ids {
		s, ok := ciphers.ByID(id)
		require.True(t, ok, "unknown suite %#04x", id)
		out = append(out, s)
	}
	return out
}

func TestClientProfile(t *testing.T) {
	b, err := Client(Config{Engine: current})
	require.NoError(t, err)
	ctx, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, ClientName, ctx.Name())
	assert.Equal(t, VerifyPeer, ctx.VerifyMode())
	assert.Equal(t, ClientCiphers, ctx.CipherList())
	assert.Equal(t, uint16(tls.VersionTLS10), ctx.MinVersion())
	assert.Equal(t, uint16(tls.VersionTLS13), ctx.MaxVersion())
	assert.Nil(t, ctx.DHParams())

	for _, s := range suites(t, ctx.CipherSuites()) {
		assert.Zero(t, s.Attrs&(ciphers.EncRC4|ciphers.Enc3DES), s.Name)
	}
}

func TestMozillaIntermediate(t *testing.T) {
	b, err := MozillaIntermediate(Config{Engine: current})
	require.NoError(t, err)
	ctx, err := b.Build()
	require.NoError(t, err)

	assert.True(t, ctx.Options().Has(NoTLSv1_3))
	assert.Equal(t, uint16(tls.VersionTLS10), ctx.MinVersion())
	assert.Equal(t, uint16(tls.VersionTLS12), ctx.MaxVersion())
	require.NotNil(t, ctx.DHParams())
	assert.Equal(t, 2048, ctx.DHParams().BitLen())
	assert.Equal(t, VerifyNone, ctx.VerifyMode())

	list := ctx.CipherSuites()
	assert.Equal(t, tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256, list[0])
	assert.Contains(t, list, tls.TLS_RSA_WITH_AES_128_GCM_SHA256)
	assert.Contains(t, list, tls.TLS_RSA_WITH_3DES_EDE_CBC_SHA)
	assert.NotContains(t, list, tls.TLS_RSA_WITH_RC4_128_SHA)
}

func TestMozillaModern(t *testing.T) {
	b, err := MozillaModern(Config{Engine: current})
	require.NoError(t, err)
	ctx, err := b.Build()
	require.NoError(t, err)

	assert.True(t, ctx.Options().Has(NoTLSv1|NoTLSv1_1|NoTLSv1_3))
	assert.Equal(t, uint16(tls.VersionTLS12), ctx.MinVersion())
	assert.Equal(t, uint16(tls.VersionTLS12), ctx.MaxVersion())
	assert.Nil(t, ctx.DHParams())

	got := suites(t, ctx.CipherSuites())
	assert.Len(t, got, 8)
	assert.Equal(t, "ECDHE-ECDSA-AES256-GCM-SHA384", got[0].Name)
	for _, s := range got {
		assert.True(t, s.ForwardSecret(), s.Name)
	}
}

func TestProfilesWithoutVersionControl(t *testing.T) {
	old := engine.Engine{Name: "crypto/tls", Version: "v1.10.0"}

	b, err := MozillaModern(Config{Engine: old})
	require.NoError(t, err)
	ctx, err := b.Build()
	require.NoError(t, err)
	assert.False(t, ctx.Options().Has(NoTLSv1_3))
	assert.Equal(t, uint16(tls.VersionTLS13), ctx.MaxVersion())
	assert.Nil(t, ctx.Config().CurvePreferences)

	b, err = MozillaIntermediate(Config{Engine: legacy})
	require.NoError(t, err)
	ctx, err = b.Build()
	require.NoError(t, err)
	assert.Equal(t, []tls.CurveID{tls.CurveP256}, ctx.Config().CurvePreferences)
	assert.True(t, ctx.Mode().Has(ReleaseBuffers))
}

func TestProfilesAreDeterministic(t *testing.T) {
	for name, fn := range map[string]func(Config) (*Builder, error){
		ClientName:       Client,
		IntermediateName: MozillaIntermediate,
		ModernName:       MozillaModern,
	} {
		t.Run(name, func(t *testing.T) {
			a, err := fn(Config{Engine: current})
			require.NoError(t, err)
			b, err := fn(Config{Engine: current})
			require.NoError(t, err)
			ca, err := a.Build()
			require.NoError(t, err)
			cb, err := b.Build()
			require.NoError(t, err)

			assert.Equal(t, ca.Options(), cb.Options())
			assert.Equal(t, ca.Mode(), cb.Mode())
			assert.Equal(t, ca.CipherSuites(), cb.CipherSuites())
			assert.Equal(t, ca.MinVersion(), cb.MinVersion())
			assert.Equal(t, ca.MaxVersion(), cb.MaxVersion())
		})
	}
}

func TestProfileCustomization(t *testing.T) {
	b, err := MozillaModern(Config{Engine: current})
	require.NoError(t, err)
	require.NoError(t, b.ClearOptions(NoTLSv1_3))
	require.NoError(t, b.SetNextProtos("h2"))
	ctx, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), ctx.MaxVersion())
	assert.Equal(t, []string{"h2"}, ctx.Config().NextProtos)
}
