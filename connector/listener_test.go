package connector

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zllovesuki/tlsconnector/certgen"
	"github.com/zllovesuki/tlsconnector/profile"
)

func TestListenerAndDialer(t *testing.T) {
	ca, err := certgen.NewCA("root")
	require.NoError(t, err)
	leaf, err := ca.Issue(certgen.Options{DNSNames: []string{"localhost"}, IPAddresses: []net.IP{net.ParseIP("127.0.0.1")}})
	require.NoError(t, err)

	ab, err := MozillaIntermediate(profile.Config{Engine: nativeEngine})
	require.NoError(t, err)
	require.NoError(t, ab.AddCertificate(leaf.TLSCertificate()))
	require.NoError(t, ab.SetNextProtos("echo", "plain"))
	acceptor, err := ab.Build()
	require.NoError(t, err)

	cb, err := NewConnectorBuilder(profile.Config{Engine: nativeEngine})
	require.NoError(t, err)
	require.NoError(t, cb.SetRootCAs(ca.Pool()))
	connector, err := cb.Build()
	require.NoError(t, err)

	raw, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewListener(acceptor, raw, time.Second)
	echo := l.For("echo")
	go l.Serve(ctx)

	go func() {
		for {
			conn, err := echo.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				io.Copy(conn, conn)
			}()
		}
	}()

	d := &Dialer{
		Connector: connector,
		Configure: func(c *ConnectConfiguration) {
			c.Config().NextProtos = []string{"echo"}
		},
	}

	// the IP literal is verified against the IP SAN
	conn, err := d.Dial(ctx, raw.Addr().String(), "")
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "echo", conn.ConnectionState().NegotiatedProtocol)

	_, err = conn.Write([]byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 5)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	// sessions without a registered protocol land on Accept
	d.Configure = func(c *ConnectConfiguration) {
		c.Config().NextProtos = []string{"plain"}
	}
	plain, err := d.Dial(ctx, raw.Addr().String(), "localhost")
	require.NoError(t, err)
	defer plain.Close()

	accepted, err := l.Accept()
	require.NoError(t, err)
	defer accepted.Close()

	// a failing handshake never surfaces
	_, err = d.Dial(ctx, raw.Addr().String(), "example.com")
	assert.Error(t, err)

	cancel()
	_, err = echo.Accept()
	assert.ErrorIs(t, err, net.ErrClosed)
}
