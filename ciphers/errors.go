package ciphers

import "github.com/pkg/errors"

var (
	ErrNoCipherMatch = errors.New("no cipher match")
	ErrSyntax        = errors.New("invalid cipher list syntax")
)
