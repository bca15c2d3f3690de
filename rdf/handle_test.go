package rdf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allocCounter struct {
	allocs int
	frees  int
}

type fakeResource struct {
	counter *allocCounter
	freed   bool
}

func (c *allocCounter) alloc() *fakeResource {
	c.allocs++
	return &fakeResource{counter: c}
}

func (f *fakeResource) Free() {
	if f.freed {
		panic("fakeResource freed twice")
	}
	f.freed = true
	f.counter.frees++
}

func TestHandleReleaseIsIdempotent(t *testing.T) {
	var c allocCounter
	var h handle[*fakeResource]
	h.reset(c.alloc())
	require.True(t, h.valid())

	obj := h.release()
	require.NotNil(t, obj)
	assert.Nil(t, h.release())
	assert.False(t, h.valid())
	h.close()
	assert.Equal(t, 0, c.frees, "release hands ownership back without freeing")

	obj.Free()
	assert.Equal(t, c.allocs, c.frees)
}

func TestHandleMoveEmptiesSource(t *testing.T) {
	var c allocCounter
	var a, b handle[*fakeResource]
	a.reset(c.alloc())
	b.reset(c.alloc())

	b.take(&a)
	assert.False(t, a.valid())
	assert.True(t, b.valid())
	assert.Equal(t, 1, c.frees, "the object b held is freed by the move-assign")

	a.close()
	b.take(&b)
	assert.True(t, b.valid())
	b.close()
	b.close()
	assert.Equal(t, c.allocs, c.frees)
}

func TestHandleResetSameObject(t *testing.T) {
	var c allocCounter
	var h handle[*fakeResource]
	obj := c.alloc()
	h.reset(obj)
	h.reset(obj)
	assert.Equal(t, 0, c.frees)
	h.close()
	assert.Equal(t, 1, c.frees)
}

func TestHandleRandomOperationsBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var c allocCounter
	handles := make([]handle[*fakeResource], 5)
	var released []*fakeResource

	for range 2000 {
		i, j := rng.Intn(len(handles)), rng.Intn(len(handles))
		switch rng.Intn(5) {
		case 0:
			handles[i].reset(c.alloc())
		case 1:
			handles[i].take(&handles[j])
		case 2:
			if obj := handles[i].release(); obj != nil {
				released = append(released, obj)
			}
		case 3:
			handles[i].close()
		case 4:
			var tmp handle[*fakeResource]
			tmp.take(&handles[i])
			handles[j].take(&tmp)
		}
	}
	for i := range handles {
		handles[i].close()
	}
	for _, obj := range released {
		obj.Free()
	}
	assert.Equal(t, c.allocs, c.frees)
}

func TestWrappersBalanceEngineObjects(t *testing.T) {
	w := newWorld(t)

	a := node(t, w, "http://example.org/a")
	moved := a.Move()
	assert.False(t, a.IsValid())
	a.Close()
	clone, err := moved.Clone()
	require.NoError(t, err)
	assert.True(t, clone.Equal(moved))

	st := triple(t, w, "http://example.org/s", "http://example.org/p", `"o"`)
	view := st.Subject()
	require.True(t, view.IsBorrowed())
	view.Close()
	assert.True(t, st.Subject().IsValid(), "closing a view leaves the owner intact")

	stCopy, err := st.Clone()
	require.NoError(t, err)
	other := stCopy.Move()
	stCopy.Close()

	assert.Equal(t, 2+6, w.Live(KindNode))
	assert.Equal(t, 2, w.Live(KindStatement))

	moved.Close()
	clone.Close()
	st.Close()
	other.Close()
	other.Close()
	assert.Equal(t, 0, w.Live(KindNode))
	assert.Equal(t, 0, w.Live(KindStatement))
}
