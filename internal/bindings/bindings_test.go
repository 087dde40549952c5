//go:build (linux || freebsd) && (amd64 || arm64)

package bindings

import "testing"

func TestLibrarySearchPaths(t *testing.T) {
	paths := LibrarySearchPaths()
	if len(paths) == 0 {
		t.Fatal("LibrarySearchPaths returned no paths")
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	err1 := Load()
	err2 := Load()
	if (err1 == nil) != (err2 == nil) {
		t.Errorf("Load results differ across calls: %v vs %v", err1, err2)
	}
	if err1 != nil {
		t.Skipf("EGL/GBM libraries not available: %v", err1)
	}
	if !IsLoaded() {
		t.Error("IsLoaded returned false after successful Load")
	}
	if LibEGL() == 0 || LibGBM() == 0 {
		t.Error("library handles should be non-zero after Load")
	}
}

func TestProcAddressBeforeLoad(t *testing.T) {
	if !IsLoaded() {
		if got := ProcAddress("eglCreateStreamKHR"); got != 0 {
			t.Errorf("ProcAddress before Load = %#x, want 0", got)
		}
	}
}
