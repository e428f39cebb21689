package session

// Option applies a configuration option to the Identity.
type Option func(*Identity)

// WithListener registers fn to be called once, with the first assigned id.
func WithListener(fn func(id string)) Option {
	return func(i *Identity) {
		if fn != nil {
			i.listener = fn
		}
	}
}
