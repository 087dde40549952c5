// Package handles provides a reference-counted handle registry for objects
// that are exposed to callers as opaque EGL-style handles.
//
// External code never sees a Go pointer to a display or surface; it sees a
// handle that must be resolved through a Registry. Resolution is the single
// validation point for externally supplied handles: a stale or unknown handle
// resolves to nil instead of a dangling object. Handles are generation
// checked, so a handle kept across a destroy/create cycle that reuses the
// same slot is still rejected.
//
// Each Registry is an explicit object rather than process-global state, so a
// test can run several registries side by side.
package handles

import (
	"sync"
)

// Type tags the kind of object behind a handle. Values follow the
// EGL_KHR_debug object type enumerants so the tag can be reported directly
// through EGL debug tooling.
type Type int32

// Object types for the registries used by this module.
const (
	TypeDisplay Type = 0x33B1 // EGL_OBJECT_DISPLAY_KHR
	TypeSurface Type = 0x33B3 // EGL_OBJECT_SURFACE_KHR
)

// Handle is an opaque identifier for a registered object. The zero Handle is
// never valid.
type Handle uint64

const (
	indexShift = 32
	genMask    = 1<<32 - 1

	// maxObjects bounds a registry. Far more than any EGL client creates;
	// Add reports exhaustion rather than growing without limit.
	maxObjects = 1 << 20
)

// Object is a registered, reference-counted entry. The registry entry itself
// holds one reference; anything that resolved the object through Ref holds
// another until it calls Unref.
type Object struct {
	// Type tags the concrete kind of Value.
	Type Type

	// Value is the object behind the handle (*Display, *Surface, ...).
	Value any

	free   func()
	refs   int32
	handle Handle
}

// NewObject builds an object ready for Registry.Add. free runs exactly once,
// when the reference count reaches zero; it must release everything the
// object owns.
func NewObject(t Type, value any, free func()) *Object {
	return &Object{Type: t, Value: value, free: free}
}

// Handle returns the handle assigned by Add, or zero if the object was never
// registered.
func (o *Object) Handle() Handle {
	if o == nil {
		return 0
	}
	return o.handle
}

type slot struct {
	gen uint32
	obj *Object
}

// Registry maps handles to live objects. The zero value is not usable; use
// NewRegistry.
//
// Thread-safe. The buffer-cycling core above this package is single-threaded,
// but the registry is shared process plumbing and keeps its own lock.
type Registry struct {
	mu       sync.Mutex
	slots    []slot
	freeList []uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers obj with a reference count of one and returns its handle.
// Returns the zero Handle if obj is nil, already registered, or the registry
// is exhausted.
func (r *Registry) Add(obj *Object) Handle {
	if obj == nil || obj.handle != 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.freeList); n > 0 {
		idx = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
	} else {
		if len(r.slots) >= maxObjects {
			return 0
		}
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}

	s := &r.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Generation wrapped; skip zero so a handle is never all-zero.
		s.gen = 1
	}
	s.obj = obj

	obj.refs = 1
	obj.handle = Handle(idx+1)<<indexShift | Handle(s.gen)
	return obj.handle
}

// Ref resolves h to its live object and takes a reference on it. Returns nil
// if h is stale or unknown. The caller owns the reference and must release it
// with Unref.
func (r *Registry) Ref(h Handle) *Object {
	if h == 0 {
		return nil
	}
	idx := uint32(h>>indexShift) - 1
	gen := uint32(h & genMask)

	r.mu.Lock()
	defer r.mu.Unlock()

	if int(idx) >= len(r.slots) {
		return nil
	}
	s := &r.slots[idx]
	if s.obj == nil || s.gen != gen {
		return nil
	}
	s.obj.refs++
	return s.obj
}

// Unref releases one reference on obj. When the count reaches zero the
// handle mapping is removed and the object's free function runs.
//
// The free function runs outside the registry lock, so it may itself resolve
// or unref other objects (a surface's free drops its reference on the parent
// display).
func (r *Registry) Unref(obj *Object) {
	if obj == nil {
		return
	}

	r.mu.Lock()
	obj.refs--
	if obj.refs > 0 {
		r.mu.Unlock()
		return
	}

	idx := uint32(obj.handle>>indexShift) - 1
	if int(idx) < len(r.slots) && r.slots[idx].obj == obj {
		r.slots[idx].obj = nil
		r.freeList = append(r.freeList, idx)
	}
	obj.handle = 0
	r.mu.Unlock()

	if obj.free != nil {
		obj.free()
	}
}

// UnrefHandle resolves h and releases the registry's own reference on it, in
// one step. Returns whether a live object was found. This is the destroy
// entry point for callers that do not already hold a reference.
func (r *Registry) UnrefHandle(h Handle) bool {
	obj := r.Ref(h)
	if obj == nil {
		return false
	}
	// Drop the reference Ref just took plus the one held by the registry
	// entry itself.
	r.Unref(obj)
	r.Unref(obj)
	return true
}

// Count returns the number of live objects. Useful for leak checks in tests.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.slots {
		if r.slots[i].obj != nil {
			n++
		}
	}
	return n
}
