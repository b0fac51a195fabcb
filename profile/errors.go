package profile

import "github.com/pkg/errors"

var (
	ErrFinalized        = errors.New("profile has already been built")
	ErrNoProtocols      = errors.New("every protocol version is disabled")
	ErrInvalidDHParams  = errors.New("invalid DH parameters")
	ErrUnsupportedCurve = errors.New("curve is not supported by the engine")
)
