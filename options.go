package hashledger

import "time"

// settings are shared by Ledger and HashChain.
type settings struct {
	currency string
	scheme   Scheme
	now      func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{
		currency: DefaultCurrency,
		scheme:   Framed,
		now:      time.Now,
	}
	for _, opt := range opts {
		s = opt(s)
	}
	return s
}

// Option configures a Ledger or a HashChain.
type Option func(settings) settings

// WithCurrency sets the currency used to report summaries. Default is INR.
func WithCurrency(code string) Option {
	return func(s settings) settings {
		if code != "" {
			s.currency = code
		}
		return s
	}
}

// WithScheme sets the digest scheme of a HashChain. Default is Framed.
func WithScheme(scheme Scheme) Option {
	return func(s settings) settings {
		s.scheme = scheme
		return s
	}
}

// WithClock sets the clock used to date the genesis block.
func WithClock(now func() time.Time) Option {
	return func(s settings) settings {
		if now != nil {
			s.now = now
		}
		return s
	}
}
