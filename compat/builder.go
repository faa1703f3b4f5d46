// FILE: compat/builder.go
package compat

import (
	"fmt"

	"github.com/micrococo/logbus"
)

// Builder provides a flexible way to create configured framework adapters
// It can use an existing *logbus.Logger instance or create a new one from a *logbus.Config
type Builder struct {
	logger *logbus.Logger
	busCfg *logbus.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing bus to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *logbus.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("logbus/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new bus instance
// This is used only if an existing bus is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default bus will be created
func (b *Builder) WithConfig(cfg *logbus.Config) *Builder {
	b.busCfg = cfg
	return b
}

// getLogger resolves the bus to be used, creating and starting one if necessary
func (b *Builder) getLogger() (*logbus.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	// An existing bus was provided, so we use it
	if b.logger != nil {
		return b.logger, nil
	}

	l := logbus.NewLogger()
	cfg := b.busCfg
	if cfg == nil {
		cfg = logbus.DefaultConfig()
		cfg.Enabled = true
	}

	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	// Cache the newly created bus for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildSlog creates a slog.Handler bridge
func (b *Builder) BuildSlog(opts ...SlogOption) (*SlogHandler, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewSlogHandler(l, opts...), nil
}

// GetLogger returns the underlying *logbus.Logger instance
// If a bus has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (*logbus.Logger, error) {
	return b.getLogger()
}
