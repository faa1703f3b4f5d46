// FILE: builder.go
package logbus

// Builder provides a fluent API for building bus configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates and starts a new Logger with the built configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	if err := logger.Start(); err != nil {
		return nil, err
	}

	return logger, nil
}

// Enabled sets whether the bus accepts log calls on start.
func (b *Builder) Enabled(enabled bool) *Builder {
	b.cfg.Enabled = enabled
	return b
}

// FlushIntervalMs sets the flush interval; values <= 0 select immediate mode.
func (b *Builder) FlushIntervalMs(msec int64) *Builder {
	b.cfg.FlushIntervalMs = msec
	return b
}

// FilePath sets the file sink path; empty disables the file sink.
func (b *Builder) FilePath(path string) *Builder {
	b.cfg.FilePath = path
	return b
}

// BufferSize sets the delivery channel capacity.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// SubscriberBufferSize sets the per-subscription channel capacity.
func (b *Builder) SubscriberBufferSize(size int64) *Builder {
	b.cfg.SubscriberBufferSize = size
	return b
}

// InternalErrorsToStderr enables internal diagnostics on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
//
//	bus, err := logbus.NewBuilder().
//		Enabled(true).
//		FilePath("/var/log/app/app.log").
//		FlushIntervalMs(250).
//		Build()
//
//	if err == nil {
//		defer bus.Shutdown()
//		bus.LogPrefixed("app", "bus initialized")
//	}
