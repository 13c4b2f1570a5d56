package format

// Deref returns the value behind p, or def when p is nil. Optional wire
// fields are modelled as pointers so absence survives a JSON round trip.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
