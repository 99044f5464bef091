package fs

type options struct {
	logger          *Logger
	checkInvariants bool
}

// Option configures a Device.
type Option func(*options)

// WithLogger sets the device logger. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithInvariantChecks makes every mutating operation verify the file
// table afterwards and report corruption as an error.
func WithInvariantChecks(on bool) Option {
	return func(o *options) {
		o.checkInvariants = on
	}
}
