package verify

import (
	"crypto/x509"
	"time"

	"github.com/pkg/errors"

	"github.com/zllovesuki/tlsconnector/identity"
)

// StoreContext is what a Callback sees for one certificate of the chain.
type StoreContext struct {
	chain  []*x509.Certificate
	depth  int
	result Result
	slot   *Slot
}

// Depth is the position of the current certificate; 0 is the leaf.
func (s *StoreContext) Depth() int {
	return s.depth
}

// Certificate returns the certificate at the current depth.
func (s *StoreContext) Certificate() *x509.Certificate {
	return s.chain[s.depth]
}

// Chain returns the whole chain, leaf first.
func (s *StoreContext) Chain() []*x509.Certificate {
	return s.chain
}

// Result is the verification result recorded for the current depth.
func (s *StoreContext) Result() Result {
	return s.result
}

// SetResult overrides the result for the current depth.
func (s *StoreContext) SetResult(r Result) {
	s.result = r
}

// ExpectedDomain returns the domain registered for the handshake.
func (s *StoreContext) ExpectedDomain() (string, bool) {
	return s.slot.Domain()
}

// Callback is invoked once per chain certificate, from the top of the chain
// down to the leaf. preverified is false when the engine already rejected the
// certificate at this depth. Returning false aborts the handshake.
type Callback func(preverified bool, store *StoreContext) bool

// HostnameCallback checks the leaf certificate against the expected domain.
// Other depths, earlier failures and handshakes without a registered domain
// pass through untouched.
func HostnameCallback(preverified bool, store *StoreContext) bool {
	if !preverified || store.Depth() != 0 {
		return preverified
	}

	domain, ok := store.ExpectedDomain()
	if !ok {
		return true
	}

	if !identity.VerifyX509(domain, store.Certificate()) {
		store.SetResult(ResultApplicationVerification)
		return false
	}
	return true
}

// walk replays the engine's verdict over chain and gives cb the final say
// for every depth.
func walk(chain []*x509.Certificate, verifyErr error, now time.Time, slot *Slot, cb Callback) error {
	failDepth, failResult := -1, ResultOK
	if verifyErr != nil {
		failDepth, failResult = classify(chain, verifyErr, now)
	}

	for depth := len(chain) - 1; depth >= 0; depth-- {
		store := &StoreContext{
			chain:  chain,
			depth:  depth,
			result: ResultOK,
			slot:   slot,
		}
		preverified := true
		if depth == failDepth {
			store.result = failResult
			preverified = false
		}

		if !cb(preverified, store) {
			res := store.result
			if res == ResultOK {
				res = ResultUnspecified
			}
			var cause error
			if depth == failDepth {
				cause = verifyErr
			}
			return &Error{Depth: depth, Result: res, Cause: cause}
		}
	}
	return nil
}

// classify maps an x509 verification error to the chain depth it concerns.
func classify(chain []*x509.Certificate, err error, now time.Time) (int, Result) {
	var unknown x509.UnknownAuthorityError
	var invalid x509.CertificateInvalidError
	var hostname x509.HostnameError

	switch {
	case errors.As(err, &unknown):
		return len(chain) - 1, ResultUnableToGetIssuer

	case errors.As(err, &invalid):
		depth := indexOf(chain, invalid.Cert)
		switch invalid.Reason {
		case x509.Expired:
			if invalid.Cert != nil && now.Before(invalid.Cert.NotBefore) {
				return depth, ResultCertNotYetValid
			}
			return depth, ResultCertHasExpired
		case x509.NotAuthorizedToSign, x509.CANotAuthorizedForThisName, x509.TooManyIntermediates:
			return depth, ResultInvalidCA
		case x509.IncompatibleUsage:
			return depth, ResultInvalidPurpose
		default:
			return depth, ResultUnspecified
		}

	case errors.As(err, &hostname):
		return 0, ResultHostnameMismatch

	default:
		return 0, ResultUnspecified
	}
}

func indexOf(chain []*x509.Certificate, cert *x509.Certificate) int {
	if cert == nil {
		return 0
	}
	for i, c := range chain {
		if c.Equal(cert) {
			return i
		}
	}
	return 0
}
