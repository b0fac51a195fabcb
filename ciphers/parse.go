// Package ciphers compiles OpenSSL-style cipher list strings into the cipher
// suites crypto/tls can negotiate for TLS 1.2 and below.
//
// The syntax is the familiar one: elements separated by ':', ',' or spaces;
// a leading '!' removes suites for good, '-' removes them until added again,
// '+' moves already selected suites to the end; 'A+B' selects suites
// matching both A and B. Names the engine doesn't implement are skipped, so
// lists written for a broader engine still compile.
package ciphers

import (
	"strings"

	"github.com/pkg/errors"
)

const defaultKeyword = "DEFAULT"

type op int

const (
	opAdd op = iota
	opRemove
	opKill
	opTail
)

// Parse compiles list into an ordered suite selection.
func Parse(list string) ([]Suite, error) {
	var selected []Suite
	killed := map[uint16]bool{}

	for _, tok := range tokens(list) {
		// sorting and security level directives have no equivalent here
		if strings.HasPrefix(tok, "@") {
			continue
		}

		o := opAdd
		switch tok[0] {
		case '!':
			o = opKill
		case '-':
			o = opRemove
		case '+':
			o = opTail
		}
		name := tok
		if o != opAdd {
			name = tok[1:]
		}
		if name == "" {
			return nil, errors.Wrapf(ErrSyntax, "dangling operator in %q", tok)
		}

		matched, err := match(name)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", tok)
		}

		switch o {
		case opAdd:
			for _, s := range matched {
				if !killed[s.ID] && indexOf(selected, s.ID) < 0 {
					selected = append(selected, s)
				}
			}
		case opRemove:
			selected = without(selected, matched)
		case opKill:
			selected = without(selected, matched)
			for _, s := range matched {
				killed[s.ID] = true
			}
		case opTail:
			var moved []Suite
			for _, s := range selected {
				if indexOf(matched, s.ID) >= 0 {
					moved = append(moved, s)
				}
			}
			selected = append(without(selected, moved), moved...)
		}
	}

	if len(selected) == 0 {
		return nil, errors.Wrapf(ErrNoCipherMatch, "%q", list)
	}
	return selected, nil
}

// IDs compiles list into suite IDs suitable for tls.Config.CipherSuites.
func IDs(list string) ([]uint16, error) {
	selected, err := Parse(list)
	if err != nil {
		return nil, err
	}
	ids := make([]uint16, len(selected))
	for i, s := range selected {
		ids[i] = s.ID
	}
	return ids, nil
}

func tokens(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ':' || r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// match returns the suites, in engine order, selected by a possibly
// '+'-joined element.
func match(name string) ([]Suite, error) {
	parts := strings.Split(name, "+")
	for _, p := range parts {
		if p == "" {
			return nil, ErrSyntax
		}
	}

	var out []Suite
	for _, s := range suites {
		ok := true
		for _, p := range parts {
			if !matchPart(p, s) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func matchPart(part string, s Suite) bool {
	if part == defaultKeyword {
		return s.Attrs&EncRC4 == 0
	}
	if attr, ok := aliases[part]; ok {
		return s.Attrs&attr != 0
	}
	if _, ok := unsupported[part]; ok {
		return false
	}
	return s.Name == part
}

func indexOf(list []Suite, id uint16) int {
	for i, s := range list {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func without(list, drop []Suite) []Suite {
	out := list[:0:0]
	for _, s := range list {
		if indexOf(drop, s.ID) < 0 {
			out = append(out, s)
		}
	}
	return out
}
