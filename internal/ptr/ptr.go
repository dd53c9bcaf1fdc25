// Package ptr provides helpers for the optional pointer fields used by task
// patches and scores.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

// ToString returns the string form of a string-based enum pointer, or "".
func ToString[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

// NonEmpty returns a pointer to s, or nil when s is empty. CLI flags use it
// to turn an unset string into an untouched patch field.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
