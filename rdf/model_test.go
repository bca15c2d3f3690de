package rdf

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCase struct {
	name    string
	backend string
	options func(t *testing.T) string
}

var backendCases = []backendCase{
	{"memory", BackendMemory, func(*testing.T) string { return "contexts='yes'" }},
	{"hashes", BackendHashes, func(*testing.T) string { return "hash-type='memory',contexts='yes'" }},
	{"sqlite", BackendSQLite, func(t *testing.T) string {
		return fmt.Sprintf("file='%s'", filepath.Join(t.TempDir(), "store.db"))
	}},
}

func TestModelAddRemoveHasProperty(t *testing.T) {
	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			w := newWorld(t)
			model := newModel(t, w, bc.backend, bc.options(t))

			var universe []*Statement
			for i := range 6 {
				st := triple(t, w,
					fmt.Sprintf("http://example.org/s%d", i%3),
					"http://example.org/p",
					fmt.Sprintf(`"%d"`, i))
				universe = append(universe, st)
			}
			defer closeAll(universe)

			rng := rand.New(rand.NewSource(42))
			present := map[int]bool{}
			for step := range 200 {
				i := rng.Intn(len(universe))
				if rng.Intn(2) == 0 {
					require.True(t, model.AddStatement(universe[i]), "step %d: add is idempotent", step)
					present[i] = true
				} else {
					removed := model.RemoveStatement(universe[i])
					require.Equal(t, present[i], removed, "step %d: remove reports membership", step)
					delete(present, i)
				}
				for j, st := range universe {
					require.Equal(t, present[j], model.HasStatement(st), "step %d statement %d", step, j)
				}
				require.Equal(t, len(present), model.Size())
			}
		})
	}
}

func TestModelRejectsInvalidStatements(t *testing.T) {
	w := newWorld(t)
	model := newModel(t, w, BackendMemory, "")

	lit := triple(t, w, `"s"`, "http://example.org/p", `"o"`)
	defer lit.Close()
	assert.False(t, model.AddStatement(lit))
	assert.Error(t, w.LastError())

	pattern, err := NewStatement(w)
	require.NoError(t, err)
	defer pattern.Close()
	assert.False(t, model.AddStatement(pattern))
	assert.False(t, model.AddStatement(nil))
	assert.False(t, model.HasStatement(nil))

	var empty Model
	assert.False(t, empty.AddStatement(lit))
	assert.Equal(t, -1, empty.Size())
}

func TestModelFindHelpers(t *testing.T) {
	w := newWorld(t)
	model := newModel(t, w, BackendHashes, "hash-type='memory'")
	s1 := node(t, w, "http://example.org/s1")
	defer s1.Close()
	knows := node(t, w, "http://example.org/knows")
	defer knows.Close()
	name := node(t, w, "http://example.org/name")
	defer name.Close()
	s2 := node(t, w, "http://example.org/s2")
	defer s2.Close()
	alice := node(t, w, `"Alice"`)
	defer alice.Close()

	require.True(t, model.Add(s1, knows, s2))
	require.True(t, model.Add(s1, name, alice))
	require.True(t, model.Add(s2, knows, s1))
	assert.True(t, s1.IsValid(), "Add does not consume its nodes")

	found, err := model.FindNodes(s1, nil, nil)
	require.NoError(t, err)
	defer closeAll(found)
	want := []string{
		"{<http://example.org/s1>, <http://example.org/knows>, <http://example.org/s2>}",
		`{<http://example.org/s1>, <http://example.org/name>, "Alice"}`,
	}
	if diff := cmp.Diff(want, statementStrings(found)); diff != "" {
		t.Fatalf("FindNodes mismatch (-want +got):\n%s", diff)
	}

	pattern, err := NewStatementFromNodes(w, nil, knows.Move(), nil)
	require.NoError(t, err)
	defer pattern.Close()
	all, err := model.Find(pattern)
	require.NoError(t, err)
	defer closeAll(all)
	assert.Len(t, all, 2)

	first, err := model.FindFirst(pattern)
	require.NoError(t, err)
	require.NotNil(t, first)
	defer first.Close()
	assert.Equal(t, "http://example.org/s1", first.Subject().String())

	none, err := model.FindNodes(alice, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	absent := triple(t, w, "http://example.org/x", "http://example.org/y", "http://example.org/z")
	defer absent.Close()
	missing, err := model.FindFirst(absent)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestModelNavigation(t *testing.T) {
	w := newWorld(t)
	model := newModel(t, w, BackendMemory, "")
	for _, st := range []*Statement{
		triple(t, w, "http://example.org/a", "http://example.org/p", "http://example.org/b"),
		triple(t, w, "http://example.org/a", "http://example.org/p", "http://example.org/c"),
		triple(t, w, "http://example.org/a", "http://example.org/q", "http://example.org/c"),
	} {
		require.True(t, model.AddStatement(st))
		st.Close()
	}
	a := node(t, w, "http://example.org/a")
	defer a.Close()
	p := node(t, w, "http://example.org/p")
	defer p.Close()
	c := node(t, w, "http://example.org/c")
	defer c.Close()

	targets, err := model.Targets(a, p)
	require.NoError(t, err)
	defer targets.Close()
	var got []string
	for n := range targets.All() {
		got = append(got, n.String())
	}
	assert.Equal(t, []string{"http://example.org/b", "http://example.org/c"}, got)
	assert.False(t, targets.Next())

	arcs, err := model.Arcs(a, c)
	require.NoError(t, err)
	defer arcs.Close()
	nodes, err := arcs.Copy()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "http://example.org/p", nodes[0].String())
	assert.Equal(t, "http://example.org/q", nodes[1].String())
	for _, n := range nodes {
		n.Close()
	}

	sources, err := model.Sources(p, c)
	require.NoError(t, err)
	defer sources.Close()
	src, err := sources.Object()
	require.NoError(t, err)
	defer src.Close()
	assert.True(t, src.Equal(a))
}

func TestModelContexts(t *testing.T) {
	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			w := newWorld(t)
			model := newModel(t, w, bc.backend, bc.options(t))
			require.True(t, model.SupportsContexts())

			g1 := node(t, w, "http://example.org/g1")
			defer g1.Close()
			g2 := node(t, w, "_:g2")
			defer g2.Close()
			st := triple(t, w, "http://example.org/s", "http://example.org/p", `"o"`)
			defer st.Close()

			require.True(t, model.ContextAddStatement(g1, st))
			require.True(t, model.ContextAddStatement(g2, st))
			require.True(t, model.AddStatement(st))
			assert.Equal(t, 3, model.Size())
			assert.True(t, model.ContainsContext(g1))

			contexts, err := model.Contexts()
			require.NoError(t, err)
			names, err := contexts.Copy()
			contexts.Close()
			require.NoError(t, err)
			require.Len(t, names, 2)
			assert.True(t, names[0].Equal(g1))
			assert.True(t, names[1].Equal(g2))
			for _, n := range names {
				n.Close()
			}

			inG1, err := model.ContextAsStream(g1)
			require.NoError(t, err)
			copies, err := inG1.Copy()
			inG1.Close()
			require.NoError(t, err)
			assert.Len(t, copies, 1)
			closeAll(copies)

			stream, err := model.FindStatementsInContext(st, g2)
			require.NoError(t, err)
			ctx, err := stream.Context()
			require.NoError(t, err)
			require.NotNil(t, ctx)
			assert.True(t, ctx.Equal(g2))
			ctx.Close()
			stream.Close()

			require.True(t, model.ContextRemoveStatement(g1, st))
			assert.False(t, model.ContextRemoveStatement(g1, st))
			require.True(t, model.ContextRemoveStatements(g2))
			assert.False(t, model.ContainsContext(g2))
			assert.True(t, model.HasStatement(st), "the default graph copy remains")
			assert.Equal(t, 1, model.Size())

			require.True(t, model.RemoveAllStatements())
			assert.Equal(t, 0, model.Size())
			assert.True(t, model.Sync())
		})
	}
}

func TestModelWithoutContexts(t *testing.T) {
	w := newWorld(t)
	model := newModel(t, w, BackendMemory, "")
	assert.False(t, model.SupportsContexts())

	g := node(t, w, "http://example.org/g")
	defer g.Close()
	st := triple(t, w, "http://example.org/s", "http://example.org/p", `"o"`)
	defer st.Close()
	assert.False(t, model.ContextAddStatement(g, st))
	assert.False(t, model.AddInContext(g, st.Subject(), st.Predicate(), st.Object()))

	_, err := model.Contexts()
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestModelClone(t *testing.T) {
	w := newWorld(t)
	model := newModel(t, w, BackendMemory, "")
	st := triple(t, w, "http://example.org/s", "http://example.org/p", `"o"`)
	defer st.Close()
	require.True(t, model.AddStatement(st))

	clone, err := model.Clone()
	require.NoError(t, err)
	defer clone.Close()
	assert.True(t, clone.HasStatement(st))

	require.True(t, clone.RemoveStatement(st))
	assert.True(t, model.HasStatement(st), "the clone owns separate storage")
}

func TestStorageOutlivesHandle(t *testing.T) {
	w := newWorld(t)
	path := filepath.Join(t.TempDir(), "kept.db")
	st := triple(t, w, "http://example.org/s", "http://example.org/p", `"o"`)
	defer st.Close()

	storage, err := NewStorage(w, BackendSQLite, "kept", fmt.Sprintf("file='%s'", path))
	require.NoError(t, err)
	model, err := NewModel(w, storage, "")
	require.NoError(t, err)
	storage.Close()
	require.True(t, model.AddStatement(st))
	model.Close()

	reopened := newModel(t, w, BackendSQLite, fmt.Sprintf("file='%s'", path))
	assert.True(t, reopened.HasStatement(st))

	fresh := newModel(t, w, BackendSQLite, fmt.Sprintf("file='%s',new='yes'", path))
	assert.Equal(t, 0, fresh.Size())
}

func TestNewStorageFailures(t *testing.T) {
	w := newWorld(t)
	for _, tc := range []struct{ backend, options string }{
		{"bdb", ""},
		{BackendMemory, "contexts=yes"},
		{BackendHashes, "hash-type='bdb'"},
	} {
		_, err := NewStorage(w, tc.backend, "x", tc.options)
		assert.ErrorIs(t, err, ErrAllocation, "%s %s", tc.backend, tc.options)
	}
	assert.Equal(t, []string{BackendHashes, BackendMemory, BackendSQLite}, Backends())
}
