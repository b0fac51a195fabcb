package verify

// Slot carries the domain a single handshake is expected to reach. It is
// owned by the per-connection configuration, written once before the
// handshake starts and only read from within it.
type Slot struct {
	domain string
	set    bool
}

// Set records the expected domain.
func (s *Slot) Set(domain string) error {
	if s.set {
		return ErrSlotWritten
	}
	if domain == "" {
		return ErrEmptyDomain
	}
	s.domain = domain
	s.set = true
	return nil
}

// Domain returns the expected domain, if one was registered.
func (s *Slot) Domain() (string, bool) {
	if s == nil || !s.set {
		return "", false
	}
	return s.domain, true
}
