package ports

import "time"

// Clock supplies the current logical time to every operation. The core
// never calls time.Now directly; the host environment (or a test)
// decides what "now" means.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
