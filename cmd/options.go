package cmd

// Options holds the shared command-line options for the pulse CLI.
type Options struct {
	Format    string
	Repos     []string // owner/name overrides for configured repositories
	Limit     int      // max issues or commits per repository, 0 = no limit
	Verbosity int

	// Velocity options
	Since       string // commit window for measured velocity (e.g., "6w", "90d")
	Cycles      int    // number of cycles to aggregate
	CycleLength int    // cycle length in days

	// Health options
	Measured bool // derive current velocity from commit history

	// Snapshot options
	Label string // snapshot label, defaults to "default"
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Since:       "6w",
		Cycles:      4,
		CycleLength: 7,
		Label:       "default",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithRepos sets repository overrides in owner/name form.
func WithRepos(repos []string) Option {
	return func(o *Options) {
		o.Repos = repos
	}
}

// WithLimit sets the maximum number of items fetched per repository.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithSince sets the commit window (e.g., "6w", "90d").
func WithSince(since string) Option {
	return func(o *Options) {
		o.Since = since
	}
}

// WithCycles sets the number of velocity cycles.
func WithCycles(n int) Option {
	return func(o *Options) {
		o.Cycles = n
	}
}

// WithCycleLength sets the cycle length in days.
func WithCycleLength(days int) Option {
	return func(o *Options) {
		o.CycleLength = days
	}
}

// WithLabel sets the snapshot label.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}
