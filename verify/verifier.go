// Package verify checks peer certificate chains during the handshake and
// dispatches hostname verification to either the engine's built-in matcher
// or the identity package, depending on the engine's capabilities.
package verify

import (
	"crypto/tls"
	"crypto/x509"
	"time"

	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/engine"
	"github.com/zllovesuki/tlsconnector/identity"
	"github.com/zllovesuki/tlsconnector/profiler"
)

// Options configure a Verifier.
type Options struct {
	Strategy engine.VerifyStrategy
	// Roots are the trust anchors. nil means the system pool.
	Roots *x509.CertPool
	// Callback replaces HostnameCallback on the callback strategy.
	Callback Callback
	// Time returns the current time used for validity checks.
	Time   func() time.Time
	Logger *zap.Logger
}

// Verifier is immutable once built and may be shared by any number of
// concurrent handshakes.
type Verifier struct {
	strategy engine.VerifyStrategy
	roots    *x509.CertPool
	callback Callback
	time     func() time.Time
	logger   *zap.Logger
}

func New(o Options) *Verifier {
	v := &Verifier{
		strategy: o.Strategy,
		roots:    o.Roots,
		callback: o.Callback,
		time:     o.Time,
		logger:   o.Logger,
	}
	if v.callback == nil {
		v.callback = HostnameCallback
	}
	if v.time == nil {
		v.time = time.Now
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	return v
}

// Strategy reports the dispatch strategy in use.
func (v *Verifier) Strategy() engine.VerifyStrategy {
	return v.strategy
}

// WithRoots returns a copy of v trusting pool instead.
func (v *Verifier) WithRoots(pool *x509.CertPool) *Verifier {
	c := *v
	c.roots = pool
	return &c
}

// VerifyConnection returns a hook for tls.Config.VerifyConnection bound to
// the handshake's slot.
func (v *Verifier) VerifyConnection(slot *Slot) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		err := v.Verify(cs.PeerCertificates, slot)
		if err != nil {
			domain, _ := slot.Domain()
			v.logger.Debug("peer certificate rejected",
				zap.String("strategy", v.strategy.String()),
				zap.String("domain", domain),
				zap.Error(err))
			profiler.Verifications.WithLabelValues("rejected", v.strategy.String()).Add(1)
			return err
		}
		profiler.Verifications.WithLabelValues("accepted", v.strategy.String()).Add(1)
		return nil
	}
}

// Verify validates chain (leaf first, as presented by the peer) and, when the
// slot carries a domain, the leaf's identity.
func (v *Verifier) Verify(chain []*x509.Certificate, slot *Slot) error {
	if len(chain) == 0 {
		return &Error{Result: ResultNoPeerCertificate}
	}

	now := v.time()
	opts := x509.VerifyOptions{
		Roots:         v.roots,
		Intermediates: x509.NewCertPool(),
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, c := range chain[1:] {
		opts.Intermediates.AddCert(c)
	}

	switch v.strategy {
	case engine.VerifyNative:
		domain, ok := slot.Domain()
		if ok {
			opts.DNSName = domain
		}
		if _, err := chain[0].Verify(opts); err != nil {
			depth, res := classify(chain, err, now)
			return &Error{Depth: depth, Result: res, Cause: err}
		}
		if ok && !matchesIPExactly(chain[0], domain) {
			return &Error{
				Result: ResultHostnameMismatch,
				Cause:  x509.HostnameError{Certificate: chain[0], Host: domain},
			}
		}
		return nil

	default:
		chains, err := chain[0].Verify(opts)
		if err == nil && len(chains) > 0 {
			chain = chains[0]
		}
		return walk(chain, err, now, slot, v.callback)
	}
}

// matchesIPExactly holds for non-IP domains. For an IP literal it requires a
// SAN entry with the same bytes: the engine's matcher treats an IPv4-mapped
// IPv6 address as equal to its IPv4 form.
func matchesIPExactly(leaf *x509.Certificate, domain string) bool {
	addr, ok := identity.ParseIP(domain)
	if !ok {
		return true
	}
	for _, ip := range leaf.IPAddresses {
		if identity.MatchIP(addr, ip) {
			return true
		}
	}
	return false
}
