package profile

import "github.com/pkg/errors"

// Profile names, also used as metric labels.
const (
	ClientName       = "client"
	IntermediateName = "mozilla-intermediate"
	ModernName       = "mozilla-modern"
)

const (
	ClientCiphers = "DEFAULT:!aNULL:!eNULL:!MD5:!3DES:!DES:!RC4:!IDEA:!SEED:!aDSS:!SRP:!PSK"

	// https://wiki.mozilla.org/Security/Server_Side_TLS
	IntermediateCiphers = "ECDHE-ECDSA-CHACHA20-POLY1305:ECDHE-RSA-CHACHA20-POLY1305:" +
		"ECDHE-ECDSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA256:" +
		"ECDHE-ECDSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-GCM-SHA384:" +
		"DHE-RSA-AES128-GCM-SHA256:DHE-RSA-AES256-GCM-SHA384:ECDHE-ECDSA-AES128-SHA256:" +
		"ECDHE-RSA-AES128-SHA256:ECDHE-ECDSA-AES128-SHA:ECDHE-RSA-AES256-SHA384:" +
		"ECDHE-RSA-AES128-SHA:ECDHE-ECDSA-AES256-SHA384:ECDHE-ECDSA-AES256-SHA:" +
		"ECDHE-RSA-AES256-SHA:DHE-RSA-AES128-SHA256:DHE-RSA-AES128-SHA:DHE-RSA-AES256-SHA256:" +
		"DHE-RSA-AES256-SHA:ECDHE-ECDSA-DES-CBC3-SHA:ECDHE-RSA-DES-CBC3-SHA:" +
		"EDH-RSA-DES-CBC3-SHA:AES128-GCM-SHA256:AES256-GCM-SHA384:AES128-SHA256:AES256-SHA256:" +
		"AES128-SHA:AES256-SHA:DES-CBC3-SHA:!DSS"

	ModernCiphers = "ECDHE-ECDSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-GCM-SHA384:" +
		"ECDHE-ECDSA-CHACHA20-POLY1305:ECDHE-RSA-CHACHA20-POLY1305:" +
		"ECDHE-ECDSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA256:ECDHE-ECDSA-AES256-SHA384:" +
		"ECDHE-RSA-AES256-SHA384:ECDHE-ECDSA-AES128-SHA256:ECDHE-RSA-AES128-SHA256"
)

type step func(*Builder) error

func assemble(name string, c Config, steps ...step) (*Builder, error) {
	b := New(name, c)
	for _, s := range steps {
		if err := s(b); err != nil {
			return nil, errors.Wrapf(err, "assembling %s profile", name)
		}
	}
	return b, nil
}

func noTLSv13IfSupported(b *Builder) error {
	if !b.caps.VersionControl {
		return nil
	}
	return b.SetOptions(NoTLSv1_3)
}

// Client returns a builder for connecting to servers: system roots, a
// conservative cipher list and peer verification. Hostname verification is
// attached per session by the connector.
func Client(c Config) (*Builder, error) {
	return assemble(ClientName, c,
		(*Builder).SetDefaultVerifyPaths,
		func(b *Builder) error { return b.SetCipherList(ClientCiphers) },
		func(b *Builder) error { return b.SetVerify(VerifyPeer) },
	)
}

// MozillaIntermediate returns a server builder following Mozilla's
// intermediate recommendations, suited to a wide range of clients.
func MozillaIntermediate(c Config) (*Builder, error) {
	return assemble(IntermediateName, c,
		noTLSv13IfSupported,
		func(b *Builder) error { return b.SetTmpDH(ffdhe2048) },
		(*Builder).SetupCurves,
		func(b *Builder) error { return b.SetCipherList(IntermediateCiphers) },
	)
}

// MozillaModern returns a server builder following Mozilla's modern
// recommendations: TLS 1.2 or newer with forward secret suites only.
func MozillaModern(c Config) (*Builder, error) {
	return assemble(ModernName, c,
		func(b *Builder) error { return b.SetOptions(NoTLSv1 | NoTLSv1_1) },
		noTLSv13IfSupported,
		(*Builder).SetupCurves,
		func(b *Builder) error { return b.SetCipherList(ModernCiphers) },
	)
}
