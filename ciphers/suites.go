package ciphers

import "crypto/tls"

// Attribute classifies a suite the way OpenSSL cipher aliases do.
type Attribute uint32

const (
	// key exchange
	KxRSA Attribute = 1 << iota
	KxECDHE
	// authentication
	AuthRSA
	AuthECDSA
	// bulk encryption
	EncRC4
	Enc3DES
	EncAES128
	EncAES256
	EncAES128GCM
	EncAES256GCM
	EncChaCha20
	// message authentication
	MacSHA1
	MacSHA256
	MacSHA384
	MacAEAD
	// strength
	StrengthHigh
	StrengthMedium

	kxMask = KxRSA | KxECDHE
)

// Suite is one TLS 1.0-1.2 cipher suite the engine can negotiate.
type Suite struct {
	ID    uint16
	Name  string
	Attrs Attribute
}

// ForwardSecret reports whether the suite uses an ephemeral key exchange.
func (s Suite) ForwardSecret() bool {
	return s.Attrs&KxECDHE != 0
}

// AEAD reports whether the suite uses authenticated encryption.
func (s Suite) AEAD() bool {
	return s.Attrs&MacAEAD != 0
}

// suites lists every suite crypto/tls implements for TLS 1.2 and below, in
// the engine's default preference order.
var suites = []Suite{
	{tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256, "ECDHE-ECDSA-AES128-GCM-SHA256", KxECDHE | AuthECDSA | EncAES128GCM | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, "ECDHE-RSA-AES128-GCM-SHA256", KxECDHE | AuthRSA | EncAES128GCM | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384, "ECDHE-ECDSA-AES256-GCM-SHA384", KxECDHE | AuthECDSA | EncAES256GCM | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384, "ECDHE-RSA-AES256-GCM-SHA384", KxECDHE | AuthRSA | EncAES256GCM | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256, "ECDHE-ECDSA-CHACHA20-POLY1305", KxECDHE | AuthECDSA | EncChaCha20 | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256, "ECDHE-RSA-CHACHA20-POLY1305", KxECDHE | AuthRSA | EncChaCha20 | MacAEAD | StrengthHigh},
	{tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA, "ECDHE-ECDSA-AES128-SHA", KxECDHE | AuthECDSA | EncAES128 | MacSHA1 | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA, "ECDHE-RSA-AES128-SHA", KxECDHE | AuthRSA | EncAES128 | MacSHA1 | StrengthHigh},
	{tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA, "ECDHE-ECDSA-AES256-SHA", KxECDHE | AuthECDSA | EncAES256 | MacSHA1 | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA, "ECDHE-RSA-AES256-SHA", KxECDHE | AuthRSA | EncAES256 | MacSHA1 | StrengthHigh},
	{tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256, "ECDHE-ECDSA-AES128-SHA256", KxECDHE | AuthECDSA | EncAES128 | MacSHA256 | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256, "ECDHE-RSA-AES128-SHA256", KxECDHE | AuthRSA | EncAES128 | MacSHA256 | StrengthHigh},
	{tls.TLS_RSA_WITH_AES_128_GCM_SHA256, "AES128-GCM-SHA256", KxRSA | AuthRSA | EncAES128GCM | MacAEAD | StrengthHigh},
	{tls.TLS_RSA_WITH_AES_256_GCM_SHA384, "AES256-GCM-SHA384", KxRSA | AuthRSA | EncAES256GCM | MacAEAD | StrengthHigh},
	{tls.TLS_RSA_WITH_AES_128_CBC_SHA, "AES128-SHA", KxRSA | AuthRSA | EncAES128 | MacSHA1 | StrengthHigh},
	{tls.TLS_RSA_WITH_AES_256_CBC_SHA, "AES256-SHA", KxRSA | AuthRSA | EncAES256 | MacSHA1 | StrengthHigh},
	{tls.TLS_RSA_WITH_AES_128_CBC_SHA256, "AES128-SHA256", KxRSA | AuthRSA | EncAES128 | MacSHA256 | StrengthHigh},
	{tls.TLS_ECDHE_RSA_WITH_3DES_EDE_CBC_SHA, "ECDHE-RSA-DES-CBC3-SHA", KxECDHE | AuthRSA | Enc3DES | MacSHA1 | StrengthMedium},
	{tls.TLS_RSA_WITH_3DES_EDE_CBC_SHA, "DES-CBC3-SHA", KxRSA | AuthRSA | Enc3DES | MacSHA1 | StrengthMedium},
	{tls.TLS_ECDHE_ECDSA_WITH_RC4_128_SHA, "ECDHE-ECDSA-RC4-SHA", KxECDHE | AuthECDSA | EncRC4 | MacSHA1 | StrengthMedium},
	{tls.TLS_ECDHE_RSA_WITH_RC4_128_SHA, "ECDHE-RSA-RC4-SHA", KxECDHE | AuthRSA | EncRC4 | MacSHA1 | StrengthMedium},
	{tls.TLS_RSA_WITH_RC4_128_SHA, "RC4-SHA", KxRSA | AuthRSA | EncRC4 | MacSHA1 | StrengthMedium},
}

// aliases name groups of suites. An alias may match nothing in this engine
// (aNULL, DSS, PSK...), which is fine: lists built for other engines still
// parse.
var aliases = map[string]Attribute{
	"ALL":      ^Attribute(0),
	"HIGH":     StrengthHigh,
	"MEDIUM":   StrengthMedium,
	"kRSA":     KxRSA,
	"RSA":      KxRSA,
	"kECDHE":   KxECDHE,
	"kEECDH":   KxECDHE,
	"ECDHE":    KxECDHE,
	"EECDH":    KxECDHE,
	"aRSA":     AuthRSA,
	"aECDSA":   AuthECDSA,
	"ECDSA":    AuthECDSA,
	"RC4":      EncRC4,
	"3DES":     Enc3DES,
	"AES128":   EncAES128 | EncAES128GCM,
	"AES256":   EncAES256 | EncAES256GCM,
	"AES":      EncAES128 | EncAES256 | EncAES128GCM | EncAES256GCM,
	"AESGCM":   EncAES128GCM | EncAES256GCM,
	"CHACHA20": EncChaCha20,
	"SHA1":     MacSHA1,
	"SHA":      MacSHA1,
	"SHA256":   MacSHA256,
	"SHA384":   MacSHA384,
	"AEAD":     MacAEAD,
}

// unsupported are OpenSSL aliases for algorithms crypto/tls never offers.
var unsupported = map[string]struct{}{
	"aNULL": {}, "eNULL": {}, "NULL": {}, "COMPLEMENTOFALL": {}, "COMPLEMENTOFDEFAULT": {},
	"EXPORT": {}, "LOW": {}, "MD5": {}, "DES": {}, "IDEA": {}, "SEED": {}, "CAMELLIA": {},
	"aDSS": {}, "DSS": {}, "SRP": {}, "PSK": {}, "kEDH": {}, "kDHE": {}, "EDH": {}, "DHE": {},
	"ADH": {}, "AECDH": {}, "aGOST": {}, "kGOST": {}, "ARIA": {}, "AESCCM": {}, "AESCCM8": {},
}

// All returns every suite the engine implements.
func All() []Suite {
	out := make([]Suite, len(suites))
	copy(out, suites)
	return out
}

// Lookup finds a suite by its OpenSSL name or IANA ID.
func Lookup(name string) (Suite, bool) {
	for _, s := range suites {
		if s.Name == name || tls.CipherSuiteName(s.ID) == name {
			return s, true
		}
	}
	return Suite{}, false
}

// ByID finds a suite by its IANA ID.
func ByID(id uint16) (Suite, bool) {
	for _, s := range suites {
		if s.ID == id {
			return s, true
		}
	}
	return Suite{}, false
}
