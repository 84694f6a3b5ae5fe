package buffer

// Option configures Manager
type Option func(*Manager)

// WithCapacity sets the number of buffers. non-positive value is ignored
func WithCapacity(capacity int) Option {
	return func(m *Manager) {
		if capacity > 0 {
			m.capacity = capacity
		}
	}
}

// WithReplacer sets cache replacement policy. default is clock sweep
func WithReplacer(factory ReplacerFactory) Option {
	return func(m *Manager) {
		if factory != nil {
			m.newReplacer = factory
		}
	}
}
