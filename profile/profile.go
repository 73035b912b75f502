package profile

// Tag is the build tag that enables profiling. It also names the profile
// output directory under the cache directory.
const Tag = "pprof"

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. If empty, a temporary directory is used.
	Path string
	// Quiet suppresses the start and stop messages of the profiler.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling and returns the value that ends it.
//
// Without the pprof build tag, or if Mode is empty, Start returns a no-op
// Stopper. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
