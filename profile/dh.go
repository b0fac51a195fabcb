package profile

import (
	"encoding/pem"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const dhPEMType = "DH PARAMETERS"

// ffdhe2048 is the RFC 7919 2048-bit group.
var ffdhe2048 = []byte(`-----BEGIN DH PARAMETERS-----
MIIBCAKCAQEA//////////+t+FRYortKmq/cViAnPTzx2LnFg84tNpWp4TZBFGQz
+8yTnc4kmz75fS/jY2MMddj2gbICrsRhetPfHtXV/WVhJDP1H18GbtCFY2VVPe0a
87VXE15/V8k1mE8McODmi3fipona8+/och3xWKE2rec1MKzKT0g6eXq8CrGCsyT7
YdEIqUuyyOP7uWrat2DX9GgdT0Kj3jlN9K5W7edjcrsZCwenyO4KbXCeAvzhzffi
7MA0BM0oNC9hkXL+nOmFg/+OTxIy7vKBg8P+OxtMb61zO7X8vC7CIAXFjvGDfRaD
ssbzSibBsu/6iGtCOGEoXJf//////////wIBAg==
-----END DH PARAMETERS-----
`)

// DHParams is a finite field Diffie-Hellman group.
type DHParams struct {
	P *big.Int
	G *big.Int
}

// BitLen is the size of the prime.
func (d *DHParams) BitLen() int {
	return d.P.BitLen()
}

// FFDHE2048 returns the group used by the intermediate server profile.
func FFDHE2048() *DHParams {
	d, err := ParseDHParams(ffdhe2048)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDHParams decodes a PKCS #3 "DH PARAMETERS" PEM block.
func ParseDHParams(data []byte) (*DHParams, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != dhPEMType {
		return nil, errors.Wrap(ErrInvalidDHParams, "no DH PARAMETERS block")
	}

	var (
		seq  cryptobyte.String
		p, g = new(big.Int), new(big.Int)
	)
	in := cryptobyte.String(block.Bytes)
	if !in.ReadASN1(&seq, cbasn1.SEQUENCE) || !in.Empty() {
		return nil, errors.Wrap(ErrInvalidDHParams, "malformed sequence")
	}
	if !seq.ReadASN1Integer(p) || !seq.ReadASN1Integer(g) {
		return nil, errors.Wrap(ErrInvalidDHParams, "malformed prime or generator")
	}
	// privateValueLength is optional
	if !seq.Empty() {
		var l int64
		if !seq.ReadASN1Integer(&l) || !seq.Empty() {
			return nil, errors.Wrap(ErrInvalidDHParams, "trailing data")
		}
	}

	if p.Sign() <= 0 || p.Bit(0) == 0 {
		return nil, errors.Wrap(ErrInvalidDHParams, "prime must be odd and positive")
	}
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(pm1) >= 0 {
		return nil, errors.Wrap(ErrInvalidDHParams, "generator out of range")
	}
	return &DHParams{P: p, G: g}, nil
}
