package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"os"
	"syscall"

	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/connector"
	"github.com/zllovesuki/tlsconnector/profile"
	"github.com/zllovesuki/tlsconnector/util"
)

type stdio struct {
	io.Reader
	io.Writer
}

type ConnectOpts struct {
	Logger         *zap.Logger
	Addr           string
	Domain         string
	CA             string
	SNI            bool
	VerifyHostname bool
	NextProtos     []string
	Sigs           chan os.Signal
}

func Connect(ctx context.Context, opts ConnectOpts) {
	logger := opts.Logger

	c, err := newConnector(logger, opts.CA)
	if err != nil {
		logger.Fatal("building connector", zap.Error(err))
	}

	domain := opts.Domain
	if domain == "" {
		domain, _, err = net.SplitHostPort(opts.Addr)
		if err != nil {
			logger.Fatal("parsing address", zap.Error(err))
		}
	}
	domain, err = normalizeDomain(domain)
	if err != nil {
		logger.Fatal("invalid domain", zap.Error(err))
	}

	d := &connector.Dialer{
		Connector: c,
		Configure: func(cfg *connector.ConnectConfiguration) {
			cfg.UseServerNameIndication(opts.SNI).VerifyHostname(opts.VerifyHostname)
			cfg.Config().NextProtos = opts.NextProtos
		},
	}
	conn, err := d.Dial(ctx, opts.Addr, domain)
	if err != nil {
		logger.Fatal("connecting", zap.String("domain", domain), zap.Error(err))
	}
	defer conn.Close()

	cs := conn.ConnectionState()
	logger.Info("connected",
		zap.String("domain", domain),
		zap.String("strategy", c.Strategy().String()),
		zap.String("version", tls.VersionName(cs.Version)),
		zap.String("cipherSuite", tls.CipherSuiteName(cs.CipherSuite)),
		zap.String("proto", cs.NegotiatedProtocol),
		zap.String("peer", cs.PeerCertificates[0].Subject.String()))

	go func() {
		if err := util.Pipe(ctx, conn, stdio{Reader: os.Stdin, Writer: os.Stdout}); err != nil {
			logger.Error("error piping session", zap.Error(err))
		}
		opts.Sigs <- syscall.SIGTERM
	}()

	<-opts.Sigs
}

func newConnector(logger *zap.Logger, caFile string) (*connector.Connector, error) {
	b, err := connector.NewConnectorBuilder(profile.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errNoCertificates
		}
		if err := b.SetRootCAs(pool); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
