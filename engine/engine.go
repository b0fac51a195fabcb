// Package engine describes the TLS engine linked into the process and resolves,
// once, which code paths the rest of the module should take for it.
package engine

import (
	"runtime"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
)

// VerifyStrategy selects how peer hostnames are checked during the handshake.
type VerifyStrategy int

const (
	// VerifyCallback walks the verified chain and runs the identity package at the leaf.
	VerifyCallback VerifyStrategy = iota
	// VerifyNative delegates hostname checks to the engine's own matcher.
	VerifyNative
)

func (s VerifyStrategy) String() string {
	switch s {
	case VerifyNative:
		return "native"
	case VerifyCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// CurveStrategy selects how ephemeral EC key exchange curves are configured.
type CurveStrategy int

const (
	// CurveExplicit pins a single named curve (P-256).
	CurveExplicit CurveStrategy = iota
	// CurveAuto lets the engine pick from its own preference list.
	CurveAuto
)

func (s CurveStrategy) String() string {
	switch s {
	case CurveAuto:
		return "auto"
	case CurveExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Minimum engine versions for each capability.
const (
	NativeVerifyVersion    = "v1.15.0"
	AutoCurveVersion       = "v1.8.0"
	VersionControlVersion  = "v1.12.0"
	ReleaseBuffersVersion  = "v1.0.0"
	defaultEngineName      = "crypto/tls"
	goReleasePrefix        = "go"
	develReleaseIdentifier = "devel"
)

// Engine is an opaque, comparable descriptor of the TLS implementation.
// Version is a semantic version; anything that does not parse is treated as
// unknown and every capability is reported as unavailable.
type Engine struct {
	Name    string
	Version string
}

// Capabilities is the set of strategy choices fixed for an engine.
type Capabilities struct {
	Verify VerifyStrategy
	Curves CurveStrategy
	// VersionControl reports whether the newest protocol version can be
	// disabled independently of the others.
	VersionControl bool
	// ReleaseBuffers reports whether idle buffer release is known to be safe.
	ReleaseBuffers bool
	// FiniteFieldDHE reports whether the engine negotiates DHE cipher suites.
	FiniteFieldDHE bool
}

var (
	detectOnce sync.Once
	detected   Engine
)

// Detect returns the descriptor of the linked engine. The result is computed
// once per process.
func Detect() Engine {
	detectOnce.Do(func() {
		detected = Engine{
			Name:    defaultEngineName,
			Version: fromGoVersion(runtime.Version()),
		}
	})
	return detected
}

// IsZero reports whether e is the zero descriptor.
func (e Engine) IsZero() bool {
	return e == Engine{}
}

// Known reports whether the version identifier could be understood.
func (e Engine) Known() bool {
	return semver.IsValid(e.Version)
}

// AtLeast reports whether the engine version is known and >= v.
func (e Engine) AtLeast(v string) bool {
	if !e.Known() {
		return false
	}
	return semver.Compare(e.Version, v) >= 0
}

func (e Engine) String() string {
	if e.Version == "" {
		return e.Name
	}
	return e.Name + "@" + e.Version
}

// Capabilities resolves the strategy choices for e.
func (e Engine) Capabilities() Capabilities {
	c := Capabilities{
		Verify:         VerifyCallback,
		Curves:         CurveExplicit,
		VersionControl: e.AtLeast(VersionControlVersion),
		ReleaseBuffers: e.AtLeast(ReleaseBuffersVersion),
	}
	if e.AtLeast(NativeVerifyVersion) {
		c.Verify = VerifyNative
	}
	if e.AtLeast(AutoCurveVersion) {
		c.Curves = CurveAuto
	}
	return c
}

// fromGoVersion converts runtime.Version() output ("go1.22.3", "go1.21rc2",
// "devel go1.23-abcdef ...") into a semantic version, or "" if it can't.
func fromGoVersion(v string) string {
	if strings.HasPrefix(v, develReleaseIdentifier) {
		i := strings.Index(v, goReleasePrefix+"1.")
		if i < 0 {
			return ""
		}
		v = v[i:]
	}
	if !strings.HasPrefix(v, goReleasePrefix) {
		return ""
	}
	v = v[len(goReleasePrefix):]

	end := 0
	for end < len(v) && (v[end] == '.' || (v[end] >= '0' && v[end] <= '9')) {
		end++
	}
	core, pre := v[:end], v[end:]
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return ""
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	out := "v" + strings.Join(parts, ".")
	if pre != "" && pre[0] != '-' && pre[0] != ' ' {
		out += "-" + strings.Fields(pre)[0]
	}
	if !semver.IsValid(out) {
		return ""
	}
	return out
}
