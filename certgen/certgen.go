// Package certgen issues throwaway certificates for development servers and
// tests. Nothing here is meant for production key material.
package certgen

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"time"

	"github.com/pkg/errors"
)

// KeyType selects the leaf key algorithm.
type KeyType int

const (
	ECDSA KeyType = iota
	RSA
)

// Options describe the certificate to issue.
type Options struct {
	CommonName  string
	DNSNames    []string
	IPAddresses []net.IP
	// ExtraExtensions are copied verbatim. A subjectAltName extension here
	// replaces the one built from DNSNames and IPAddresses.
	ExtraExtensions []pkix.Extension
	NotBefore       time.Time
	NotAfter        time.Time
	IsCA            bool
	KeyType         KeyType
}

// Issued is a certificate with its private key.
type Issued struct {
	Cert *x509.Certificate
	Key  crypto.Signer
	DER  []byte
}

// NewCA creates a self-signed certificate authority.
func NewCA(name string) (*Issued, error) {
	return issue(Options{CommonName: name, IsCA: true}, nil)
}

// SelfSigned creates a self-signed leaf.
func SelfSigned(o Options) (*Issued, error) {
	return issue(o, nil)
}

// Issue signs a new certificate with ca.
func (ca *Issued) Issue(o Options) (*Issued, error) {
	if !ca.Cert.IsCA {
		return nil, errors.New("issuer is not a certificate authority")
	}
	return issue(o, ca)
}

// TLSCertificate returns the pair for use in a tls.Config, with the given
// intermediates appended to the chain.
func (i *Issued) TLSCertificate(intermediates ...*Issued) tls.Certificate {
	chain := [][]byte{i.DER}
	for _, c := range intermediates {
		chain = append(chain, c.DER)
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  i.Key,
		Leaf:        i.Cert,
	}
}

// Pool returns a pool trusting only i.
func (i *Issued) Pool() *x509.CertPool {
	p := x509.NewCertPool()
	p.AddCert(i.Cert)
	return p
}

// PEM encodes the certificate and its key.
func (i *Issued) PEM() (cert []byte, key []byte, err error) {
	der, err := x509.MarshalPKCS8PrivateKey(i.Key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshaling private key")
	}
	cert = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: i.DER})
	key = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return cert, key, nil
}

func issue(o Options, parent *Issued) (*Issued, error) {
	key, err := generateKey(o.KeyType)
	if err != nil {
		return nil, err
	}

	serial, err := serialNumber()
	if err != nil {
		return nil, err
	}

	notBefore := o.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	notAfter := o.NotAfter
	if notAfter.IsZero() {
		notAfter = notBefore.Add(time.Hour * 24)
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: o.CommonName},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		DNSNames:              o.DNSNames,
		IPAddresses:           o.IPAddresses,
		ExtraExtensions:       o.ExtraExtensions,
		BasicConstraintsValid: true,
		IsCA:                  o.IsCA,
	}
	if o.IsCA {
		template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature
	} else {
		template.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth}
	}

	parentCert, parentKey := template, key
	if parent != nil {
		parentCert, parentKey = parent.Cert, parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parentCert, key.Public(), parentKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating certificate")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, errors.Wrap(err, "parsing issued certificate")
	}

	return &Issued{Cert: cert, Key: key, DER: der}, nil
}

func generateKey(t KeyType) (crypto.Signer, error) {
	switch t {
	case RSA:
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		return k, errors.Wrap(err, "generating rsa key")
	default:
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		return k, errors.Wrap(err, "generating ecdsa key")
	}
}

func serialNumber() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, errors.Wrap(err, "generating serial number")
	}
	return serial, nil
}
