// Package compare defines the comparator shape threaded through the
// byte-range and skiplist packages.
package compare

// Compare is a strict total order over K: negative if a < b, zero if
// a == b, positive if a > b.
type Compare[K any] func(a, b K) int
