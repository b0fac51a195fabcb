package main

import (
	"net/netip"
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// normalizeDomain turns user input into the form certificates carry: IP
// literals are kept, internationalized names become A-labels.
func normalizeDomain(domain string) (string, error) {
	if _, err := netip.ParseAddr(domain); err == nil {
		return domain, nil
	}
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(domain, "."))
	if err != nil {
		return "", errors.Wrapf(err, "converting %q to ascii", domain)
	}
	if _, ok := dns.IsDomainName(ascii); !ok {
		return "", errors.Errorf("%q is not a valid domain name", domain)
	}
	return ascii, nil
}
