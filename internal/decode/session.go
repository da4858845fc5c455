package decode

import "qrdaconv/internal/validation"

// Options are the per-run switches a Session is built from.
type Options struct {
	// SkipValidation disarms the ledger so decoders record nothing.
	SkipValidation bool
	// SkipDefaults stops decoders from injecting values a document omits.
	SkipDefaults bool
}

// Session carries the state of one conversion. It is owned by a single
// goroutine and must not be shared between files.
type Session struct {
	opts   Options
	ledger *validation.Ledger
}

// NewSession returns a session with a fresh ledger.
func NewSession(opts Options) *Session {
	s := &Session{opts: opts, ledger: validation.NewLedger()}
	s.Reset()
	return s
}

// Reset clears findings so the session can be reused for another file.
func (s *Session) Reset() {
	s.ledger.Init()
	if s.opts.SkipValidation {
		s.ledger.Disarm()
	}
}

// Ledger returns the session's findings collector.
func (s *Session) Ledger() *validation.Ledger {
	return s.ledger
}

// FillDefaults reports whether decoders may inject default values.
func (s *Session) FillDefaults() bool {
	return !s.opts.SkipDefaults
}

// Options returns the switches the session was built with.
func (s *Session) Options() Options {
	return s.opts
}
