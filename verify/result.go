package verify

import (
	"fmt"
)

// Result is the terminal outcome of walking a certificate chain.
type Result int

const (
	ResultOK Result = iota
	ResultNoPeerCertificate
	ResultUnableToGetIssuer
	ResultCertNotYetValid
	ResultCertHasExpired
	ResultInvalidCA
	ResultInvalidPurpose
	ResultHostnameMismatch
	ResultUnspecified
	// ResultApplicationVerification is set when the hostname callback rejects
	// an otherwise valid chain.
	ResultApplicationVerification
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNoPeerCertificate:
		return "no peer certificate"
	case ResultUnableToGetIssuer:
		return "unable to get issuer certificate"
	case ResultCertNotYetValid:
		return "certificate is not yet valid"
	case ResultCertHasExpired:
		return "certificate has expired"
	case ResultInvalidCA:
		return "invalid CA certificate"
	case ResultInvalidPurpose:
		return "unsupported certificate purpose"
	case ResultHostnameMismatch:
		return "hostname mismatch"
	case ResultApplicationVerification:
		return "application verification failure"
	default:
		return "unspecified certificate verification error"
	}
}

// Error is returned from the handshake's connection verification hook.
type Error struct {
	Depth  int
	Result Result
	// Cause is the engine error behind the result, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("certificate verify failed at depth %d: %s: %v", e.Depth, e.Result, e.Cause)
	}
	return fmt.Sprintf("certificate verify failed at depth %d: %s", e.Depth, e.Result)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
