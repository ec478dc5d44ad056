package rtree

// options configures engine-level behavior that is orthogonal to the
// file's on-disk geometry (dimensions, key_size, value_size, block_size
// are Create/Open arguments, not options, since they are fixed for the
// life of the file).
type options struct {
	logger Logger
}

func defaultOptions() options {
	return options{logger: DiscardLogger{}}
}

// Option configures a tree using the functional options pattern.
type Option func(*options)

// WithLogger installs a Logger the engine uses to report node
// allocations, splits, root changes, and descent anomalies. The
// default is DiscardLogger, a no-op.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
