package rdf

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Kind names a class of engine-allocated object.
type Kind = engine.Kind

// Object kinds reported by World.Live.
const (
	KindWorld      = engine.KindWorld
	KindURI        = engine.KindURI
	KindNode       = engine.KindNode
	KindStatement  = engine.KindStatement
	KindStorage    = engine.KindStorage
	KindModel      = engine.KindModel
	KindStream     = engine.KindStream
	KindIterator   = engine.KindIterator
	KindParser     = engine.KindParser
	KindSerializer = engine.KindSerializer
)

// Option configures a World.
type Option func(*Options)

// Options configures world behavior.
type Options struct {
	// Logger receives engine diagnostics. Nil means slog.Default().
	Logger *slog.Logger
	// Registerer receives allocation metrics. Nil keeps them private to the world.
	Registerer prometheus.Registerer
	// MaxObjects caps the number of live objects. Zero means no limit.
	MaxObjects int
}

func defaultOptions() Options {
	return Options{}
}

// OptLogger sets the logger used for engine diagnostics.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// OptRegisterer publishes allocation metrics to reg.
func OptRegisterer(reg prometheus.Registerer) Option {
	return func(opts *Options) {
		opts.Registerer = reg
	}
}

// OptMaxObjects caps the number of live objects. Negative values make
// NewWorld fail.
func OptMaxObjects(n int) Option {
	return func(opts *Options) {
		opts.MaxObjects = n
	}
}

// World is the engine context. Every other object is created against a
// world and must be closed before it.
type World struct {
	h handle[*engine.World]
}

// NewWorld creates and opens a world.
func NewWorld(opts ...Option) (*World, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ew := engine.NewWorld(engine.Config{
		MaxObjects: o.MaxObjects,
		Logger:     o.Logger,
		Registerer: o.Registerer,
	})
	if ew == nil {
		return nil, allocError(nil, "new world")
	}
	ew.Open()
	w := &World{}
	w.h.reset(ew)
	return w, nil
}

func (w *World) engine() *engine.World {
	if w == nil {
		return nil
	}
	return w.h.get()
}

// Close frees the world. Closing twice is a no-op.
func (w *World) Close() { w.h.close() }

// IsValid reports whether the world is open.
func (w *World) IsValid() bool { return w != nil && w.h.valid() }

// ID returns the short identifier embedded in minted blank node labels.
func (w *World) ID() string {
	if ew := w.engine(); ew != nil {
		return ew.ID()
	}
	return ""
}

// Logger returns the world logger, or slog.Default() for a closed world.
func (w *World) Logger() *slog.Logger {
	if ew := w.engine(); ew != nil {
		return ew.Logger()
	}
	return slog.Default()
}

// Live reports how many objects of kind are currently allocated.
func (w *World) Live(kind Kind) int {
	if ew := w.engine(); ew != nil {
		return ew.Live(kind)
	}
	return 0
}

// LastError returns the most recent failure recorded by an operation that
// reports only a boolean.
func (w *World) LastError() error {
	if ew := w.engine(); ew != nil {
		return ew.LastError()
	}
	return nil
}

// ClearError resets LastError.
func (w *World) ClearError() {
	if ew := w.engine(); ew != nil {
		ew.ClearError()
	}
}
