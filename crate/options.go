package crate

import "github.com/molcrate/molexport/internal/options"

// Option configures a Writer at construction time, using the same generic
// functional-option machinery the teacher uses for its encoders
// (internal/options.Option[T]/Apply).
type Option = options.Option[*Writer]

// WithTokenHashing toggles the xxHash64-backed fast path token/string
// interning uses to find previously-seen values. Disabling it falls back
// to an O(n) linear scan per intern call; useful only for isolating
// hashing from correctness in tests.
func WithTokenHashing(enabled bool) Option {
	return options.NoError[*Writer](func(w *Writer) {
		w.tokens.hashingEnabled = enabled
	})
}

// WithCollisionTracking toggles internal/collision bookkeeping on the
// token table. Disabling it trusts xxHash64 values never collide; leave
// enabled (the default) unless profiling shows the bookkeeping matters.
func WithCollisionTracking(enabled bool) Option {
	return options.NoError[*Writer](func(w *Writer) {
		w.tokens.trackCollisions = enabled
	})
}
