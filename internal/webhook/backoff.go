package webhook

import (
	"math/rand/v2"
	"time"
)

const (
	defaultBackoffBase = 250 * time.Millisecond
	defaultBackoffMax  = 5 * time.Second
)

// Backoff spaces retries exponentially with jitter. Zero fields take the
// defaults (250ms base, 5s cap).
type Backoff struct {
	Base time.Duration
	Max  time.Duration
	// NoJitter disables randomization, mainly for tests.
	NoJitter bool
}

func (b Backoff) withDefaults() Backoff {
	if b.Base <= 0 {
		b.Base = defaultBackoffBase
	}
	if b.Max <= 0 {
		b.Max = defaultBackoffMax
	}
	if b.Max < b.Base {
		b.Max = b.Base
	}
	return b
}

// Delay returns the wait before the given retry (1 for the first retry).
// With jitter the delay falls in [d/2, d] where d is the capped exponential.
func (b Backoff) Delay(retry int) time.Duration {
	b = b.withDefaults()
	if retry < 1 {
		retry = 1
	}
	d := b.Base
	for i := 1; i < retry && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	if b.NoJitter {
		return d
	}
	half := d / 2
	return half + rand.N(d-half+1)
}
