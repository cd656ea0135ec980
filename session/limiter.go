/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

// Limiter caps how many submissions a participant may make in the current
// window. A window lasts until the limit is changed.
type Limiter struct {
	limit  int
	counts map[string]int
}

func NewLimiter() *Limiter {
	return &Limiter{counts: make(map[string]int)}
}

// Allow counts a submission from name and reports whether it fits the limit.
// Privileged names are never counted.
func (l *Limiter) Allow(name string, privileged bool) bool {
	if privileged || l.limit == 0 {
		return true
	}

	l.counts[name]++

	return l.counts[name] <= l.limit
}

// SetLimit installs a new limit and opens a fresh window for everyone.
// Negative values mean unlimited.
func (l *Limiter) SetLimit(n int) {
	if n < 0 {
		n = 0
	}

	l.limit = n
	l.counts = make(map[string]int)
}

func (l *Limiter) Limit() int {
	return l.limit
}

// used returns how many submissions name has made in this window.
func (l *Limiter) used(name string) int {
	return l.counts[name]
}

// Forget drops the counter for name.
func (l *Limiter) Forget(name string) {
	delete(l.counts, name)
}
