package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w := NewWorld(cfg)
	require.NotNil(t, w)
	w.Open()
	return w
}

func TestWorldRejectsNegativeLimit(t *testing.T) {
	assert.Nil(t, NewWorld(Config{MaxObjects: -1}))
}

func TestWorldNotOpenRefusesAllocations(t *testing.T) {
	w := NewWorld(Config{})
	require.NotNil(t, w)
	assert.Nil(t, NewURINode(w, "http://example.org/a"))
	w.Open()
	n := NewURINode(w, "http://example.org/a")
	require.NotNil(t, n)
	n.Free()
	w.Free()
	assert.Nil(t, NewURINode(w, "http://example.org/a"))
}

func TestWorldObjectLimit(t *testing.T) {
	w := openWorld(t, Config{MaxObjects: 2})
	a := NewBlankNode(w, "")
	b := NewBlankNode(w, "")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Nil(t, NewBlankNode(w, ""))
	assert.ErrorIs(t, w.LastError(), ErrObjectLimit)

	a.Free()
	c := NewBlankNode(w, "")
	require.NotNil(t, c)
	b.Free()
	c.Free()
	assert.Equal(t, 0, w.Live(KindNode))
	w.Free()
}

func TestWorldDoubleFreePanics(t *testing.T) {
	w := openWorld(t, Config{})
	n := NewURINode(w, "http://example.org/a")
	n.Free()
	assert.Panics(t, func() { n.Free() })
	w.Free()
	assert.Panics(t, func() { w.Free() })
}

func TestWorldMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := openWorld(t, Config{Registerer: reg})
	nodes := []*Node{NewURINode(w, "http://example.org/a"), NewBlankNode(w, ""), NewLiteralNode(w, "x", "", false)}
	for _, n := range nodes {
		require.NotNil(t, n)
	}
	nodes[0].Free()

	m := w.metrics
	assert.Equal(t, 3.0, testutil.ToFloat64(m.allocations.WithLabelValues("node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.releases.WithLabelValues("node")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.live.WithLabelValues("node")))
	assert.Equal(t, 2, w.Live(KindNode))

	// A second world on the same registry shares the collectors.
	w2 := openWorld(t, Config{Registerer: reg})
	n := NewURINode(w2, "http://example.org/b")
	require.NotNil(t, n)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.allocations.WithLabelValues("node")))
	n.Free()
	w2.Free()

	nodes[1].Free()
	nodes[2].Free()
	w.Free()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.live.WithLabelValues("node")))
}

func TestWorldLeakWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	w := openWorld(t, Config{Logger: logger})
	n := NewURINode(w, "http://example.org/a")
	require.NotNil(t, n)
	w.Free()
	assert.Contains(t, buf.String(), "node=1")
	n.Free()
}

func TestMintBlankID(t *testing.T) {
	w1 := openWorld(t, Config{})
	w2 := openWorld(t, Config{})
	a, b := w1.MintBlankID(), w1.MintBlankID()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "r"+w1.ID()+"b"))
	assert.NotEqual(t, w1.ID(), w2.ID())
	assert.Len(t, w1.ID(), 8)
	w1.Free()
	w2.Free()
}
