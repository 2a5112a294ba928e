// Package reconcile joins normalized athletes with medal records.
package reconcile

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithOverrides appends identity-keyed overrides to the ones already set.
// Later overrides for the same key win field by field.
func WithOverrides(overrides ...Override) Option {
	return func(r *Reconciler) {
		r.overrides = append(r.overrides, overrides...)
	}
}

// WithoutDefaultOverrides drops the built-in override table.
func WithoutDefaultOverrides() Option {
	return func(r *Reconciler) {
		r.overrides = nil
	}
}
