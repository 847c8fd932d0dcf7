package prison

import "github.com/google/uuid"

// MalfunctionPolicy selects how a MajorMalfunction is delivered. It is
// a runtime switch rather than a build-time one: Go has no compile-time
// feature flags, so callers choose between returning the error
// (default) and panicking at construction time instead.
type MalfunctionPolicy int

const (
	// PolicyErr surfaces a MajorMalfunction as a returned error (default).
	PolicyErr MalfunctionPolicy = iota
	// PolicyPanic aborts with the malfunction's diagnostic message.
	PolicyPanic
)

type options struct {
	malfunctionPolicy MalfunctionPolicy
	logger            *Logger
	instanceID        uuid.UUID
}

func defaultOptions() options {
	return options{
		malfunctionPolicy: PolicyErr,
		logger:            NoopLogger(),
		instanceID:        uuid.New(),
	}
}

// resolveOptions applies opts over the defaults and tags the resulting
// logger with the instance id, so every log line WithLogger/
// WithInstanceID produce can be traced back to the Prison or Cell that
// emitted it.
func resolveOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithInstance(o.instanceID)
	return o
}

// Option configures a Prison at construction time.
type Option func(*options)

// WithMalfunctionPolicy selects how invariant violations are delivered.
func WithMalfunctionPolicy(p MalfunctionPolicy) Option {
	return func(o *options) {
		o.malfunctionPolicy = p
	}
}

// WithLogger attaches a Logger used for malfunction and structural-
// operation diagnostics. Structural operations are logged at debug
// level, malfunctions at error level; passing nil restores the no-op
// logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithInstanceID sets a stable id used to correlate this Prison's log
// lines across a process's lifetime. If not set, a random one is
// generated.
func WithInstanceID(id uuid.UUID) Option {
	return func(o *options) {
		o.instanceID = id
	}
}
