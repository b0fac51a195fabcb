package main

import (
	"crypto/x509"
	"net"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/certgen"
	"github.com/zllovesuki/tlsconnector/connector"
	"github.com/zllovesuki/tlsconnector/profile"
)

func newAcceptor(logger *zap.Logger, bundle *ConfigBundle) (*connector.Acceptor, error) {
	pc := profile.Config{Logger: logger}

	var (
		b   *connector.AcceptorBuilder
		err error
	)
	switch bundle.TLS.Profile {
	case profile.ModernName:
		b, err = connector.MozillaModern(pc)
	default:
		b, err = connector.MozillaIntermediate(pc)
	}
	if err != nil {
		return nil, err
	}

	if bundle.TLS.Cert != "" {
		err = b.SetCertificateFiles(bundle.TLS.Cert, bundle.TLS.Key)
	} else {
		err = devCertificate(logger, b, bundle.TLS.Hosts)
	}
	if err != nil {
		return nil, err
	}

	if bundle.TLS.ClientCA != "" {
		pem, err := os.ReadFile(bundle.TLS.ClientCA)
		if err != nil {
			return nil, errors.Wrap(err, "reading client ca")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("no certificates in client ca")
		}
		if err := b.SetRootCAs(pool); err != nil {
			return nil, err
		}
		if err := b.SetVerify(profile.VerifyPeer | profile.VerifyFailIfNoPeerCert); err != nil {
			return nil, err
		}
	}

	if len(bundle.TLS.NextProtos) > 0 {
		if err := b.SetNextProtos(bundle.TLS.NextProtos...); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func devCertificate(logger *zap.Logger, b *connector.AcceptorBuilder, hosts []string) error {
	o := certgen.Options{CommonName: hosts[0]}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			o.IPAddresses = append(o.IPAddresses, ip)
		} else {
			o.DNSNames = append(o.DNSNames, h)
		}
	}
	leaf, err := certgen.SelfSigned(o)
	if err != nil {
		return errors.Wrap(err, "generating development certificate")
	}
	logger.Warn("serving a self-signed development certificate", zap.Strings("hosts", hosts))
	return b.AddCertificate(leaf.TLSCertificate())
}
