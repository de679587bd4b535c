package differ

// Option is a functional option for configuring a Differ.
type Option func(*Differ)

// WithIgnoredFields sets fields to skip during comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *Differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}
