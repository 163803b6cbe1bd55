package retry

import "time"

// Option configures a Do call. A zero-value config allows no attempt at
// all, which is never what a caller wants, so Do always starts from
// defaults() and layers Options on top.
type Option func(*config)

type config struct {
	message  string
	interval time.Duration
	growth   int
	attempts int
	forever  bool
}

func defaults() *config {
	return &config{
		message:  "retry",
		interval: time.Second,
		growth:   2,
		attempts: 3,
		forever:  false,
	}
}

func build(opts ...Option) *config {
	c := defaults()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithMessage sets the text logged on each failed attempt.
func WithMessage(msg string) Option {
	return func(c *config) { c.message = msg }
}

// WithBackoffDurationType sets the wait before the first retry; the wait
// grows linearly by the configured multiplier on each subsequent attempt.
func WithBackoffDurationType(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithInfiniteRetry keeps Do retrying until ctx is cancelled, ignoring
// whatever attempt count is configured.
func WithInfiniteRetry() Option {
	return func(c *config) { c.forever = true }
}
