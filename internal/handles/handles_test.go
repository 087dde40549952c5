package handles

import (
	"sync"
	"testing"
)

func TestAddAndRef(t *testing.T) {
	type testData struct {
		Name  string
		Value int
	}

	r := NewRegistry()
	data := &testData{Name: "test", Value: 42}
	obj := NewObject(TypeSurface, data, nil)

	h := r.Add(obj)
	if h == 0 {
		t.Fatal("Add should return non-zero handle")
	}
	if obj.Handle() != h {
		t.Errorf("Handle() = %v, want %v", obj.Handle(), h)
	}

	got := r.Ref(h)
	if got == nil {
		t.Fatal("Ref should return non-nil object")
	}
	if got.Type != TypeSurface {
		t.Errorf("Ref returned wrong type tag: %v", got.Type)
	}

	gotData, ok := got.Value.(*testData)
	if !ok {
		t.Fatalf("Ref returned wrong value type: %T", got.Value)
	}
	if gotData.Name != "test" || gotData.Value != 42 {
		t.Errorf("Ref returned wrong data: %+v", gotData)
	}

	r.Unref(got)
}

func TestRefUnknownHandle(t *testing.T) {
	r := NewRegistry()
	if r.Ref(0) != nil {
		t.Error("Ref(0) should return nil")
	}
	if r.Ref(999999) != nil {
		t.Error("Ref of unknown handle should return nil")
	}
}

func TestUnrefHandleFrees(t *testing.T) {
	r := NewRegistry()

	freed := false
	obj := NewObject(TypeDisplay, "display", func() { freed = true })
	h := r.Add(obj)

	if !r.UnrefHandle(h) {
		t.Fatal("UnrefHandle should find a live object")
	}
	if !freed {
		t.Error("free function should run when refcount reaches zero")
	}
	if r.Ref(h) != nil {
		t.Error("handle should be stale after destroy")
	}
	if r.UnrefHandle(h) {
		t.Error("second UnrefHandle should report no live object")
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

func TestExtraReferenceDefersFree(t *testing.T) {
	r := NewRegistry()

	freed := false
	obj := NewObject(TypeDisplay, "display", func() { freed = true })
	h := r.Add(obj)

	// A second component takes its own reference, as a surface does on its
	// parent display.
	held := r.Ref(h)
	if held == nil {
		t.Fatal("Ref failed")
	}

	if !r.UnrefHandle(h) {
		t.Fatal("UnrefHandle should find a live object")
	}
	if freed {
		t.Fatal("object must outlive destroy while a reference is held")
	}

	r.Unref(held)
	if !freed {
		t.Error("object should be freed once the last reference drops")
	}
}

func TestGenerationCheck(t *testing.T) {
	r := NewRegistry()

	first := NewObject(TypeSurface, "first", nil)
	h := r.Add(first)
	if !r.UnrefHandle(h) {
		t.Fatal("destroy failed")
	}

	// The freed slot is reused for the next object.
	second := NewObject(TypeSurface, "second", nil)
	h2 := r.Add(second)
	if h2 == h {
		t.Fatal("reused slot must produce a distinct handle")
	}

	if r.Ref(h) != nil {
		t.Error("stale handle into a reused slot should not resolve")
	}
	got := r.Ref(h2)
	if got == nil || got.Value != "second" {
		t.Errorf("fresh handle should resolve to the new object, got %+v", got)
	}
	r.Unref(got)
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	r := NewRegistry()

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				obj := NewObject(TypeSurface, id, nil)
				h := r.Add(obj)
				if h == 0 {
					t.Errorf("Add returned zero handle")
					return
				}
				got := r.Ref(h)
				if got == nil {
					t.Errorf("Ref returned nil for handle %v", h)
					return
				}
				r.Unref(got)
				if !r.UnrefHandle(h) {
					t.Errorf("UnrefHandle found no object for %v", h)
					return
				}
			}
		}(i)
	}

	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("Count() = %d after all destroys, want 0", r.Count())
	}
}
