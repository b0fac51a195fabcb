package verify

import "github.com/pkg/errors"

var (
	ErrSlotWritten = errors.New("expected domain was already registered for this handshake")
	ErrEmptyDomain = errors.New("empty domain cannot be verified")
)
