package connector

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultHandshakeTimeout = time.Second * 3

type protoListener struct {
	l net.Listener
	c chan net.Conn
	d chan struct{}
}

var _ net.Listener = &protoListener{}

func (p *protoListener) Accept() (net.Conn, error) {
	select {
	case conn, ok := <-p.c:
		if !ok {
			return nil, net.ErrClosed
		}
		return conn, nil
	case <-p.d:
		return nil, net.ErrClosed
	}
}

func (p *protoListener) Close() error {
	return p.l.Close()
}

func (p *protoListener) Addr() net.Addr {
	return p.l.Addr()
}

// Listener accepts raw connections, runs the server handshake on each of
// them concurrently and hands out established sessions. Sessions are routed
// by negotiated ALPN protocol to the listeners returned by For; the rest go
// to Accept.
type Listener struct {
	logger   *zap.Logger
	acceptor *Acceptor
	listener net.Listener
	timeout  time.Duration

	protos   sync.Map
	fallback chan net.Conn
	done     chan struct{}
}

var _ net.Listener = &Listener{}

// NewListener serves acceptor on l. A zero timeout means three seconds.
func NewListener(acceptor *Acceptor, l net.Listener, timeout time.Duration) *Listener {
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}
	return &Listener{
		logger:   acceptor.logger,
		acceptor: acceptor,
		listener: l,
		timeout:  timeout,
		fallback: make(chan net.Conn, 32),
		done:     make(chan struct{}),
	}
}

// Serve accepts until ctx is done or the underlying listener fails.
func (l *Listener) Serve(ctx context.Context) {
	defer close(l.done)

	go func() {
		select {
		case <-ctx.Done():
			l.listener.Close()
		case <-l.done:
		}
	}()

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Error("accepting connection", zap.Error(err))
			}
			return
		}
		go l.handshake(ctx, conn)
	}
}

// For returns a listener receiving sessions that negotiated one of protos.
func (l *Listener) For(protos ...string) net.Listener {
	ch := make(chan net.Conn, 32)
	for _, proto := range protos {
		l.protos.Store(proto, ch)
	}
	return &protoListener{
		l: l.listener,
		c: ch,
		d: l.done,
	}
}

func (l *Listener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.fallback:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *Listener) Close() error {
	return l.listener.Close()
}

func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

func (l *Listener) handshake(pCtx context.Context, conn net.Conn) {
	ctx, cancel := context.WithTimeout(pCtx, l.timeout)
	defer cancel()

	tconn, err := l.acceptor.Accept(ctx, conn)
	if err != nil {
		return
	}

	ch := l.fallback
	if val, ok := l.protos.Load(tconn.ConnectionState().NegotiatedProtocol); ok {
		ch = val.(chan net.Conn)
	}
	select {
	case ch <- tconn:
	case <-l.done:
		tconn.Close()
	}
}
