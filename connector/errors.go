package connector

import "github.com/pkg/errors"

var (
	ErrConfigurationUsed = errors.New("connect configuration has already been used")
	ErrEmptyDomain       = errors.New("domain is required for SNI or hostname verification")
	ErrNilConnection     = errors.New("nil connection")
)
