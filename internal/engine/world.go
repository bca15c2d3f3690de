package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrObjectLimit is recorded when an allocation would exceed Config.MaxObjects.
var ErrObjectLimit = errors.New("engine: object limit reached")

// Config configures a World.
type Config struct {
	// MaxObjects caps the number of live non-world objects. Zero means no limit.
	MaxObjects int
	// Logger receives engine diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Registerer receives the allocation metrics. Nil keeps them private.
	Registerer prometheus.Registerer
}

// World is the engine context every other object is allocated against.
type World struct {
	id       string
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics
	opened   bool
	freed    bool
	live     map[Kind]int
	objects  int
	blankSeq atomic.Uint64
	lastErr  error
}

// NewWorld allocates a world. It returns nil for an invalid configuration.
func NewWorld(cfg Config) *World {
	if cfg.MaxObjects < 0 {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	w := &World{
		id:      id,
		cfg:     cfg,
		logger:  logger.With("world", id),
		metrics: newMetrics(cfg.Registerer),
		live:    make(map[Kind]int),
	}
	w.live[KindWorld] = 1
	w.metrics.allocated(KindWorld)
	return w
}

// Open makes the world ready for allocations. Opening twice is harmless.
func (w *World) Open() {
	if w.freed {
		panic("engine: open of freed world")
	}
	w.opened = true
}

// Free releases the world. Objects still alive are reported as leaks.
func (w *World) Free() {
	if w.freed {
		panic("engine: double free of world")
	}
	if leaks := w.leaks(); len(leaks) > 0 {
		w.logger.Warn("world freed with live objects", "leaked", strings.Join(leaks, ","))
	}
	w.freed = true
	w.live[KindWorld] = 0
	w.metrics.released(KindWorld)
}

func (w *World) leaks() []string {
	var out []string
	for kind, n := range w.live {
		if kind != KindWorld && n > 0 {
			out = append(out, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	sort.Strings(out)
	return out
}

// ID returns the short identifier used when minting blank node labels.
func (w *World) ID() string { return w.id }

// Logger returns the world logger.
func (w *World) Logger() *slog.Logger { return w.logger }

// Live reports the number of live objects of a kind.
func (w *World) Live(kind Kind) int { return w.live[kind] }

// LastError returns the most recent non-fatal failure recorded by the engine.
func (w *World) LastError() error { return w.lastErr }

// ClearError resets LastError.
func (w *World) ClearError() { w.lastErr = nil }

func (w *World) fail(op string, err error) {
	w.lastErr = fmt.Errorf("%s: %w", op, err)
	w.logger.Debug("engine operation failed", "op", op, "error", err)
}

// usable reports whether objects may be allocated against w.
func (w *World) usable() bool {
	return w != nil && w.opened && !w.freed
}

func (w *World) alloc(kind Kind) bool {
	if !w.usable() {
		return false
	}
	if w.cfg.MaxObjects > 0 && w.objects >= w.cfg.MaxObjects {
		w.fail("alloc "+string(kind), ErrObjectLimit)
		return false
	}
	w.objects++
	w.live[kind]++
	w.metrics.allocated(kind)
	return true
}

func (w *World) release(kind Kind) {
	w.objects--
	w.live[kind]--
	w.metrics.released(kind)
}

// MintBlankID returns a fresh blank node label unique to this world.
func (w *World) MintBlankID() string {
	return fmt.Sprintf("r%sb%d", w.id, w.blankSeq.Add(1))
}

// resource is embedded by every allocated engine object.
type resource struct {
	world *World
	kind  Kind
	freed bool
}

func (o *resource) init(w *World, kind Kind) bool {
	if !w.alloc(kind) {
		return false
	}
	o.world = w
	o.kind = kind
	return true
}

func (o *resource) free() {
	if o.freed {
		panic("engine: double free of " + string(o.kind))
	}
	o.freed = true
	o.world.release(o.kind)
}

// World returns the world the object was allocated against.
func (o *resource) World() *World { return o.world }
