// Package profile assembles hardened TLS configuration profiles on top of
// crypto/tls. A Builder collects options, cipher lists, curves, DH parameters
// and trust material; Build finalizes it into an immutable Context that any
// number of sessions can share.
package profile

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/ciphers"
	"github.com/zllovesuki/tlsconnector/engine"
	"github.com/zllovesuki/tlsconnector/profiler"
)

const (
	baseOptions = NoCompression | NoSSLv2 | NoSSLv3 | SingleDHUse | SingleECDHUse | CipherServerPreference
	baseMode    = AutoRetry | AcceptMovingWriteBuffer | EnablePartialWrite
)

// Config carries the dependencies of a Builder.
type Config struct {
	Logger *zap.Logger
	// Engine overrides the detected engine, mostly for tests.
	Engine engine.Engine
}

func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Engine.IsZero() {
		c.Engine = engine.Detect()
	}
}

// Builder accumulates a profile. It is not safe for concurrent use.
type Builder struct {
	name   string
	logger *zap.Logger
	engine engine.Engine
	caps   engine.Capabilities

	options    Options
	mode       Mode
	verify     VerifyMode
	cipherList string
	suites     []uint16
	curves     []tls.CurveID
	dh         *DHParams
	roots      *x509.CertPool
	certs      []tls.Certificate
	nextProtos []string

	finalized bool
}

// New returns a Builder holding the hardened baseline every profile starts
// from.
func New(name string, c Config) *Builder {
	c.normalize()
	b := &Builder{
		name:    name,
		logger:  c.Logger.With(zap.String("profile", name)),
		engine:  c.Engine,
		caps:    c.Engine.Capabilities(),
		options: baseOptions,
		mode:    baseMode,
	}
	if b.caps.ReleaseBuffers {
		b.mode |= ReleaseBuffers
	}
	b.logger.Debug("engine capabilities resolved",
		zap.Stringer("engine", b.engine),
		zap.Stringer("verify", b.caps.Verify),
		zap.Stringer("curves", b.caps.Curves),
		zap.Bool("versionControl", b.caps.VersionControl),
		zap.Bool("releaseBuffers", b.caps.ReleaseBuffers))
	return b
}

func (b *Builder) Name() string { return b.name }
func (b *Builder) Engine() engine.Engine { return b.engine }
func (b *Builder) Capabilities() engine.Capabilities { return b.caps }
func (b *Builder) Options() Options { return b.options }
func (b *Builder) Mode() Mode { return b.mode }
func (b *Builder) VerifyMode() VerifyMode { return b.verify }
func (b *Builder) Logger() *zap.Logger { return b.logger }

// SetOptions adds o to the current options.
func (b *Builder) SetOptions(o Options) error {
	if b.finalized {
		return ErrFinalized
	}
	b.options |= o
	return nil
}

// ClearOptions removes o from the current options.
func (b *Builder) ClearOptions(o Options) error {
	if b.finalized {
		return ErrFinalized
	}
	b.options &^= o
	return nil
}

// SetMode adds m to the current mode.
func (b *Builder) SetMode(m Mode) error {
	if b.finalized {
		return ErrFinalized
	}
	b.mode |= m
	return nil
}

func (b *Builder) SetVerify(v VerifyMode) error {
	if b.finalized {
		return ErrFinalized
	}
	b.verify = v
	return nil
}

// SetCipherList compiles an OpenSSL-style cipher list. The list only governs
// TLS 1.2 and below.
func (b *Builder) SetCipherList(list string) error {
	if b.finalized {
		return ErrFinalized
	}
	ids, err := ciphers.IDs(list)
	if err != nil {
		return errors.Wrap(err, "setting cipher list")
	}
	b.cipherList = list
	b.suites = ids
	return nil
}

// SetTmpDH installs PEM encoded DH parameters.
func (b *Builder) SetTmpDH(pemBytes []byte) error {
	if b.finalized {
		return ErrFinalized
	}
	dh, err := ParseDHParams(pemBytes)
	if err != nil {
		return errors.Wrap(err, "setting DH parameters")
	}
	if !b.caps.FiniteFieldDHE {
		b.logger.Debug("engine does not negotiate DHE, parameters are retained only",
			zap.Int("bits", dh.BitLen()))
	}
	b.dh = dh
	return nil
}

// SetCurves pins the ECDHE curve preference list.
func (b *Builder) SetCurves(curves ...tls.CurveID) error {
	if b.finalized {
		return ErrFinalized
	}
	for _, c := range curves {
		switch c {
		case tls.CurveP256, tls.CurveP384, tls.CurveP521, tls.X25519:
		default:
			return errors.Wrapf(ErrUnsupportedCurve, "curve %d", c)
		}
	}
	b.curves = clone(curves)
	return nil
}

// SetupCurves applies the engine's curve strategy: automatic selection
// leaves the engine's preferences alone, otherwise P-256 is pinned.
func (b *Builder) SetupCurves() error {
	if b.finalized {
		return ErrFinalized
	}
	if b.caps.Curves == engine.CurveAuto {
		b.curves = nil
		return nil
	}
	return b.SetCurves(tls.CurveP256)
}

// SetDefaultVerifyPaths trusts the system roots.
func (b *Builder) SetDefaultVerifyPaths() error {
	if b.finalized {
		return ErrFinalized
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		// a nil pool makes the engine fall back to the platform verifier
		b.logger.Debug("system roots unavailable", zap.Error(err))
		pool = nil
	}
	b.roots = pool
	return nil
}

// SetRootCAs replaces the trust anchors.
func (b *Builder) SetRootCAs(pool *x509.CertPool) error {
	if b.finalized {
		return ErrFinalized
	}
	b.roots = pool
	return nil
}

func (b *Builder) AddCertificate(cert tls.Certificate) error {
	if b.finalized {
		return ErrFinalized
	}
	b.certs = append(b.certs, cert)
	return nil
}

// SetCertificateFiles loads a PEM certificate chain and its key.
func (b *Builder) SetCertificateFiles(certFile, keyFile string) error {
	if b.finalized {
		return ErrFinalized
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return errors.Wrap(err, "loading certificate")
	}
	return b.AddCertificate(cert)
}

// SetNextProtos sets the ALPN protocols, in preference order.
func (b *Builder) SetNextProtos(protos ...string) error {
	if b.finalized {
		return ErrFinalized
	}
	b.nextProtos = clone(protos)
	return nil
}

// Build finalizes the profile. The builder rejects every call afterwards.
func (b *Builder) Build() (*Context, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	ctx, err := b.build()
	if err != nil {
		profiler.ProfileBuilds.WithLabelValues(b.name, "error").Add(1)
		b.logger.Debug("profile build failed", zap.Error(err))
		return nil, err
	}
	b.finalized = true
	profiler.ProfileBuilds.WithLabelValues(b.name, "success").Add(1)
	b.logger.Debug("profile built",
		zap.Stringer("options", b.options),
		zap.Stringer("mode", b.mode),
		zap.Stringer("verify", b.verify),
		zap.String("minVersion", tls.VersionName(ctx.config.MinVersion)),
		zap.String("maxVersion", tls.VersionName(ctx.config.MaxVersion)),
		zap.Int("cipherSuites", len(b.suites)))
	return ctx, nil
}

func (b *Builder) build() (*Context, error) {
	lo, hi, err := versionWindow(b.options)
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		MinVersion:       lo,
		MaxVersion:       hi,
		CipherSuites:     clone(b.suites),
		CurvePreferences: clone(b.curves),
		RootCAs:          b.roots,
		Certificates:     clone(b.certs),
		NextProtos:       clone(b.nextProtos),
		ClientAuth:       b.verify.clientAuth(),
	}
	if b.verify&VerifyPeer != 0 {
		cfg.ClientCAs = b.roots
	}

	return &Context{
		name:       b.name,
		logger:     b.logger,
		engine:     b.engine,
		caps:       b.caps,
		options:    b.options,
		mode:       b.mode,
		verify:     b.verify,
		cipherList: b.cipherList,
		dh:         b.dh,
		roots:      b.roots,
		config:     cfg,
	}, nil
}
