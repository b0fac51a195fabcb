package reuse

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

// Listen opens a TCP listener with address reuse enabled.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: Control}
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "listening with address reuse")
	}
	return l, nil
}
