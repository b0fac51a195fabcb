package connector

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/profile"
)

// AcceptorBuilder configures an Acceptor. Certificates and any other
// adjustments go through the embedded profile builder.
type AcceptorBuilder struct {
	*profile.Builder
}

// NewAcceptorBuilder wraps an already assembled server profile.
func NewAcceptorBuilder(b *profile.Builder) *AcceptorBuilder {
	return &AcceptorBuilder{Builder: b}
}

// MozillaIntermediate starts from the intermediate server profile.
func MozillaIntermediate(c profile.Config) (*AcceptorBuilder, error) {
	b, err := profile.MozillaIntermediate(c)
	if err != nil {
		return nil, err
	}
	return NewAcceptorBuilder(b), nil
}

// MozillaModern starts from the modern server profile.
func MozillaModern(c profile.Config) (*AcceptorBuilder, error) {
	b, err := profile.MozillaModern(c)
	if err != nil {
		return nil, err
	}
	return NewAcceptorBuilder(b), nil
}

func (b *AcceptorBuilder) Build() (*Acceptor, error) {
	ctx, err := b.Builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building acceptor")
	}
	return &Acceptor{
		ctx:    ctx,
		logger: ctx.Logger(),
	}, nil
}

// Acceptor serves server sessions. It is immutable and safe to share.
type Acceptor struct {
	ctx    *profile.Context
	logger *zap.Logger
}

// Context returns the finalized profile.
func (a *Acceptor) Context() *profile.Context {
	return a.ctx
}

// Accept performs the server handshake on conn. On failure conn is closed.
func (a *Acceptor) Accept(ctx context.Context, conn net.Conn) (*tls.Conn, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}
	tconn := tls.Server(conn, a.ctx.Config())
	if err := handshake(ctx, a.logger, tconn, roleServer); err != nil {
		return nil, errors.Wrap(err, "accepting tls connection")
	}
	return tconn, nil
}
