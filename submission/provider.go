package submission

import "context"

type storeKey struct{}

// WithStore returns a child context carrying s. Code running under that
// context reaches the store through FromContext.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// Lookup returns the store carried by ctx, if any.
func Lookup(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}

// FromContext returns the store carried by ctx.
// It panics when ctx has none: that is a wiring bug, not a runtime condition.
func FromContext(ctx context.Context) *Store {
	s, ok := Lookup(ctx)
	if !ok {
		panic("submission: store must be used within a provider (see WithStore)")
	}
	return s
}
