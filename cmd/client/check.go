package main

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zllovesuki/tlsconnector/identity"
)

var errNoCertificates = errors.New("no certificates found")

type CheckOpts struct {
	Logger *zap.Logger
	Cert   string
	Domain string
	Output io.Writer
}

// Check reports the identities carried by a certificate and whether domain
// matches one of them.
func Check(opts CheckOpts) bool {
	logger := opts.Logger

	cert, err := readCertificate(opts.Cert)
	if err != nil {
		logger.Fatal("reading certificate", zap.Error(err))
	}
	domain, err := normalizeDomain(opts.Domain)
	if err != nil {
		logger.Fatal("invalid domain", zap.Error(err))
	}

	set := identity.Extract(identity.FromX509(cert))
	switch {
	case set.FromSAN():
		for _, n := range set.SANs {
			fmt.Fprintf(opts.Output, "san\t%s\n", n)
		}
	case set.HasCommonName():
		fmt.Fprintf(opts.Output, "cn\t%s\n", set.CommonName)
	default:
		fmt.Fprintln(opts.Output, "no identity")
	}

	ok := identity.Verify(domain, set)
	fmt.Fprintf(opts.Output, "%s\t%v\n", domain, ok)
	return ok
}

func readCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errNoCertificates
		}
		if block.Type == "CERTIFICATE" {
			return x509.ParseCertificate(block.Bytes)
		}
	}
}
