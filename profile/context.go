package profile

import (
	"crypto/tls"
	"crypto/x509"

	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/engine"
)

// Context is a finalized profile. It never changes after Build and is safe
// to share between goroutines.
type Context struct {
	name       string
	logger     *zap.Logger
	engine     engine.Engine
	caps       engine.Capabilities
	options    Options
	mode       Mode
	verify     VerifyMode
	cipherList string
	dh         *DHParams
	roots      *x509.CertPool
	config     *tls.Config
}

// Config returns a copy of the handshake configuration for one session.
// Slices are copied too, so the session may modify any field.
func (c *Context) Config() *tls.Config {
	cfg := c.config.Clone()
	cfg.CipherSuites = clone(cfg.CipherSuites)
	cfg.CurvePreferences = clone(cfg.CurvePreferences)
	cfg.Certificates = clone(cfg.Certificates)
	cfg.NextProtos = clone(cfg.NextProtos)
	return cfg
}

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

func (c *Context) Name() string { return c.name }
func (c *Context) Logger() *zap.Logger { return c.logger }
func (c *Context) Engine() engine.Engine { return c.engine }
func (c *Context) Capabilities() engine.Capabilities { return c.caps }
func (c *Context) Options() Options { return c.options }
func (c *Context) Mode() Mode { return c.mode }
func (c *Context) VerifyMode() VerifyMode { return c.verify }
func (c *Context) CipherList() string { return c.cipherList }
func (c *Context) RootCAs() *x509.CertPool { return c.roots }

// DHParams returns the configured DH group, or nil.
func (c *Context) DHParams() *DHParams {
	return c.dh
}

// CipherSuites returns the TLS 1.2 suite IDs in preference order. nil means
// the engine defaults.
func (c *Context) CipherSuites() []uint16 {
	return append([]uint16(nil), c.config.CipherSuites...)
}

// MinVersion and MaxVersion bound the negotiable protocol versions.
func (c *Context) MinVersion() uint16 { return c.config.MinVersion }
func (c *Context) MaxVersion() uint16 { return c.config.MaxVersion }
