package main

import (
	"net"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/certgen"
)

type GenCertOpts struct {
	Logger *zap.Logger
	Out    string
	Hosts  []string
	RSA    bool
}

// GenCert writes a development CA and a leaf issued by it to opts.Out.
func GenCert(opts GenCertOpts) {
	logger := opts.Logger

	ca, err := certgen.NewCA("tlsconnector development root")
	if err != nil {
		logger.Fatal("generating ca", zap.Error(err))
	}

	o := certgen.Options{CommonName: opts.Hosts[0]}
	if opts.RSA {
		o.KeyType = certgen.RSA
	}
	for _, h := range opts.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			o.IPAddresses = append(o.IPAddresses, ip)
			continue
		}
		ascii, err := normalizeDomain(h)
		if err != nil {
			logger.Fatal("invalid host", zap.Error(err))
		}
		o.DNSNames = append(o.DNSNames, ascii)
	}
	leaf, err := ca.Issue(o)
	if err != nil {
		logger.Fatal("issuing leaf", zap.Error(err))
	}

	for name, issued := range map[string]*certgen.Issued{"ca": ca, "leaf": leaf} {
		cert, key, err := issued.PEM()
		if err != nil {
			logger.Fatal("encoding", zap.String("name", name), zap.Error(err))
		}
		certPath := filepath.Join(opts.Out, name+".pem")
		keyPath := filepath.Join(opts.Out, name+"-key.pem")
		if err := os.WriteFile(certPath, cert, 0o644); err != nil {
			logger.Fatal("writing certificate", zap.Error(err))
		}
		if err := os.WriteFile(keyPath, key, 0o600); err != nil {
			logger.Fatal("writing key", zap.Error(err))
		}
		logger.Info("written", zap.String("cert", certPath), zap.String("key", keyPath))
	}
}
