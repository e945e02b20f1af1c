package options

const (
	// DefaultPath is the filename kvforge uses when none is given.
	DefaultPath = "kvforge.db"

	// DefaultInitialCapacity mirrors spec.md §4.2's init() capacity.
	DefaultInitialCapacity = 31
)

// defaultOptions holds the baseline configuration for a kvforge store.
var defaultOptions = Options{
	Path:            DefaultPath,
	InitialCapacity: DefaultInitialCapacity,
}

// NewDefaultOptions returns a copy of kvforge's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
