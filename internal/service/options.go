package service

import "time"

// Option customises a service at construction.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow replaces the wall clock, letting tests move time explicitly.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
