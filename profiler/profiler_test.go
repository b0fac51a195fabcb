package profiler

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Handshakes.WithLabelValues("success", "client").Add(1)
	Verifications.WithLabelValues("accepted", "native").Add(1)
	ProfileBuilds.WithLabelValues("client", "success").Add(1)
	HandshakeLatency.WithLabelValues("client").Observe(3)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, name := range []string{
		"tlsconnector_session_handshakes_total",
		"tlsconnector_verify_decisions_total",
		"tlsconnector_profile_builds_total",
		"tlsconnector_session_handshake_ms_bucket",
	} {
		assert.Contains(t, string(body), name)
	}
}

func TestRegistryRepeatable(t *testing.T) {
	assert.NotPanics(t, func() {
		Registry()
		Registry()
	})
}
