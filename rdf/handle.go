package rdf

// freer is satisfied by every engine object a handle can own.
type freer interface {
	comparable
	Free()
}

// noCopy makes go vet's copylocks check flag wrappers copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// handle owns at most one engine object and frees it at most once.
// The zero value is an empty handle.
type handle[T freer] struct {
	_   noCopy
	obj T
}

// get returns the held object, or the zero T when empty.
func (h *handle[T]) get() T { return h.obj }

// valid reports whether an object is held.
func (h *handle[T]) valid() bool {
	var zero T
	return h.obj != zero
}

// release gives up ownership without freeing and returns the object.
func (h *handle[T]) release() T {
	obj := h.obj
	var zero T
	h.obj = zero
	return obj
}

// take moves the object out of other into h. Whatever h held is freed.
func (h *handle[T]) take(other *handle[T]) {
	if h == other {
		return
	}
	h.reset(other.release())
}

// reset frees the held object, if any, and adopts obj.
func (h *handle[T]) reset(obj T) {
	if h.obj == obj {
		return
	}
	h.close()
	h.obj = obj
}

// close frees the held object once and empties the handle.
func (h *handle[T]) close() {
	if !h.valid() {
		return
	}
	h.release().Free()
}
