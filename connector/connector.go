// Package connector wraps client and server streams in TLS sessions built
// from hardened profiles. A Connector verifies that the server it reaches
// is the one the caller asked for; an Acceptor serves one of the Mozilla
// server profiles.
package connector

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/engine"
	"github.com/zllovesuki/tlsconnector/profile"
	"github.com/zllovesuki/tlsconnector/profiler"
	"github.com/zllovesuki/tlsconnector/verify"
)

const (
	roleClient = "client"
	roleServer = "server"
)

// ConnectorBuilder configures a Connector. The embedded profile builder may
// be adjusted freely before Build.
type ConnectorBuilder struct {
	*profile.Builder

	callback verify.Callback
	now      func() time.Time
}

// NewConnectorBuilder starts from the client profile.
func NewConnectorBuilder(c profile.Config) (*ConnectorBuilder, error) {
	b, err := profile.Client(c)
	if err != nil {
		return nil, err
	}
	return &ConnectorBuilder{Builder: b}, nil
}

// SetVerifyCallback replaces the hostname callback used when the engine has
// no native hostname verification.
func (b *ConnectorBuilder) SetVerifyCallback(cb verify.Callback) {
	b.callback = cb
}

// SetTime overrides the clock used for certificate validity checks.
func (b *ConnectorBuilder) SetTime(now func() time.Time) {
	b.now = now
}

// Build finalizes the profile and resolves the verification strategy.
func (b *ConnectorBuilder) Build() (*Connector, error) {
	ctx, err := b.Builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building connector")
	}
	v := verify.New(verify.Options{
		Strategy: ctx.Capabilities().Verify,
		Roots:    ctx.RootCAs(),
		Callback: b.callback,
		Time:     b.now,
		Logger:   ctx.Logger(),
	})
	return &Connector{
		ctx:      ctx,
		verifier: v,
		logger:   ctx.Logger(),
	}, nil
}

// Connector initiates client sessions. It is immutable and safe to share.
type Connector struct {
	ctx      *profile.Context
	verifier *verify.Verifier
	logger   *zap.Logger
}

// Context returns the finalized profile.
func (c *Connector) Context() *profile.Context {
	return c.ctx
}

// Strategy reports how hostnames are verified.
func (c *Connector) Strategy() engine.VerifyStrategy {
	return c.verifier.Strategy()
}

// Configure prepares a single session. SNI and hostname verification are on.
func (c *Connector) Configure() *ConnectConfiguration {
	return &ConnectConfiguration{
		connector:      c,
		config:         c.ctx.Config(),
		slot:           &verify.Slot{},
		sni:            true,
		verifyHostname: true,
	}
}

// Connect runs a session with the default configuration. domain is used for
// SNI and hostname verification.
func (c *Connector) Connect(ctx context.Context, domain string, conn net.Conn) (*tls.Conn, error) {
	return c.Configure().Connect(ctx, domain, conn)
}

// ConnectConfiguration is the configuration of one client session.
type ConnectConfiguration struct {
	connector      *Connector
	config         *tls.Config
	slot           *verify.Slot
	sni            bool
	verifyHostname bool
	used           bool
}

// UseServerNameIndication is the chaining form of SetUseServerNameIndication.
func (c *ConnectConfiguration) UseServerNameIndication(use bool) *ConnectConfiguration {
	c.SetUseServerNameIndication(use)
	return c
}

// SetUseServerNameIndication toggles sending the domain as SNI.
func (c *ConnectConfiguration) SetUseServerNameIndication(use bool) {
	c.sni = use
}

// VerifyHostname is the chaining form of SetVerifyHostname.
func (c *ConnectConfiguration) VerifyHostname(enabled bool) *ConnectConfiguration {
	c.SetVerifyHostname(enabled)
	return c
}

// SetVerifyHostname toggles checking the server certificate against the
// domain. Without it any trusted certificate for any name is accepted, which
// leaves the session open to impersonation.
func (c *ConnectConfiguration) SetVerifyHostname(enabled bool) {
	c.verifyHostname = enabled
}

// Config exposes the session's handshake configuration for per-session
// overrides. Verification hooks installed by Connect run before any
// VerifyConnection set here, and RootCAs set here replace the trust anchors
// for this session. InsecureSkipVerify and, when enabled, ServerName are
// always overwritten by Connect.
func (c *ConnectConfiguration) Config() *tls.Config {
	return c.config
}

// Connect performs the client handshake on conn. The configuration can only
// be used once. On failure conn is closed.
func (c *ConnectConfiguration) Connect(ctx context.Context, domain string, conn net.Conn) (*tls.Conn, error) {
	if c.used {
		if conn != nil {
			conn.Close()
		}
		return nil, ErrConfigurationUsed
	}
	c.used = true

	if conn == nil {
		return nil, ErrNilConnection
	}
	if domain == "" && (c.sni || c.verifyHostname) {
		conn.Close()
		return nil, ErrEmptyDomain
	}

	cfg := c.config
	if c.sni {
		cfg.ServerName = domain
	}
	if c.verifyHostname {
		if err := c.slot.Set(domain); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "registering expected domain")
		}
	}
	// chain and name checks run in VerifyConnection, so the engine's own
	// ServerName based verification is always off
	cfg.InsecureSkipVerify = true
	if c.connector.ctx.VerifyMode()&profile.VerifyPeer != 0 {
		v := c.connector.verifier
		if cfg.RootCAs != c.connector.ctx.RootCAs() {
			v = v.WithRoots(cfg.RootCAs)
		}
		cfg.VerifyConnection = chainVerify(v.VerifyConnection(c.slot), cfg.VerifyConnection)
	}

	tconn := tls.Client(conn, cfg)
	if err := handshake(ctx, c.connector.logger, tconn, roleClient); err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", domain)
	}
	return tconn, nil
}

func chainVerify(first, next func(tls.ConnectionState) error) func(tls.ConnectionState) error {
	if next == nil {
		return first
	}
	return func(cs tls.ConnectionState) error {
		if err := first(cs); err != nil {
			return err
		}
		return next(cs)
	}
}

func handshake(ctx context.Context, logger *zap.Logger, conn *tls.Conn, role string) error {
	start := time.Now()
	err := conn.HandshakeContext(ctx)
	profiler.HandshakeLatency.WithLabelValues(role).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		logger.Debug("tls handshake failed",
			zap.String("role", role),
			zap.Error(err),
			zap.String("remoteAddr", conn.RemoteAddr().String()))
		conn.Close()
		profiler.Handshakes.WithLabelValues("error", role).Add(1)
		return err
	}

	profiler.Handshakes.WithLabelValues("success", role).Add(1)
	cs := conn.ConnectionState()
	logger.Debug("tls negotiation successful",
		zap.String("role", role),
		zap.String("version", tls.VersionName(cs.Version)),
		zap.String("cipherSuite", tls.CipherSuiteName(cs.CipherSuite)),
		zap.String("serverName", cs.ServerName),
		zap.String("proto", cs.NegotiatedProtocol))
	return nil
}
