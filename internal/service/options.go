package service

import "time"

// Option configures a service.
type Option func(*settings)

type settings struct {
	observer UseCaseObserver
	now      func() time.Time
}

// WithObserver reports use-case events to o.
func WithObserver(o UseCaseObserver) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock replaces the wall clock. Tests use it to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// Timestamps are stored with second precision, so the default clock drops
// sub-second parts.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func newSettings(opts []Option) settings {
	s := settings{observer: NoopUseCaseObserver{}, now: utcNow}
	for _, o := range opts {
		o(&s)
	}
	return s
}
