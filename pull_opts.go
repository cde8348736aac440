package boxpull

// PullOption configures a Pull operation.
type PullOption func(*pullConfig)

type pullConfig struct {
	progress    ProgressFunc
	verify      bool
	maxParallel int
}

// WithProgress sets a callback to receive per-layer progress updates.
// The callback may be invoked concurrently and must be safe for
// concurrent use.
func WithProgress(fn ProgressFunc) PullOption {
	return func(cfg *pullConfig) {
		cfg.progress = fn
	}
}

// WithDigestVerification verifies each downloaded blob against its
// declared digest while streaming. A mismatch fails that layer's task
// with ErrDigestMismatch after the bytes have been written; the partial
// file is left on disk like any other failed download.
func WithDigestVerification() PullOption {
	return func(cfg *pullConfig) {
		cfg.verify = true
	}
}

// WithMaxParallel caps the number of layer copies running at once.
// A value <= 0 (the default) leaves the copy fan-out unbounded.
func WithMaxParallel(n int) PullOption {
	return func(cfg *pullConfig) {
		cfg.maxParallel = n
	}
}
