package util

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

type readerCtx struct {
	c context.Context
	r io.Reader
}

func (r *readerCtx) Read(p []byte) (n int, err error) {
	if err := r.c.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// NewCtxReader will wrap an io.Reader and return a context-aware reader
// to allow for context cancellation
func NewCtxReader(c context.Context, r io.Reader) io.Reader {
	return &readerCtx{
		c: c,
		r: r,
	}
}

// Copy copies src to dst until either is exhausted or c is done. A read
// already blocked in src is only interrupted by closing src.
func Copy(c context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := copyBuffers.Get()
	defer copyBuffers.Put(buf)
	return io.CopyBuffer(dst, NewCtxReader(c, src), *buf)
}

// Pipe copies both ways between a and b. When one direction reaches the end
// of its stream the destination is half-closed if it supports CloseWrite and
// Pipe keeps serving the other direction; otherwise Pipe returns. The first
// error that is not a normal end of stream is returned.
func Pipe(c context.Context, a, b io.ReadWriter) error {
	errCh := make(chan error, 2)
	go func() {
		errCh <- halfCopy(c, a, b)
	}()
	go func() {
		errCh <- halfCopy(c, b, a)
	}()
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != errHalfClosed {
			return err
		}
	}
	return nil
}

var errHalfClosed = errors.New("half closed")

type closeWriter interface {
	CloseWrite() error
}

func halfCopy(c context.Context, dst io.Writer, src io.Reader) error {
	if _, err := Copy(c, dst, src); err != nil {
		return err
	}
	cw, ok := dst.(closeWriter)
	if !ok {
		return nil
	}
	if err := cw.CloseWrite(); err != nil {
		return err
	}
	return errHalfClosed
}
