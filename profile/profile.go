package profile

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode selects the profile kind; see [Modes]. Empty disables profiling.
	Mode string
	// Path is the output directory. Empty uses the pkg/profile default.
	Path string
	// Quiet suppresses pkg/profile's own start/stop messages.
	Quiet bool
}

// Option configures a Profiler.
type Option func(Profiler) Profiler

// Make returns a Profiler configured by opts.
func Make(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// WithMode sets the profiler mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the profile output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet controls pkg/profile's own logging.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start begins profiling and returns a handle to stop it.
//
// If the pprof build tag is unset, or Mode is empty or unknown, Start returns
// a no-op. Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
