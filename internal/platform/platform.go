// Package platform provides platform detection helpers for eglgbm.
// GBM only exists on Linux and the BSDs, so the set of supported systems is
// much narrower than a typical purego-based binding.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// eglgbm only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// Supported reports whether the current OS can host a GBM device at all.
func Supported() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return true
	}
	return false
}

// FormatLibraryName returns the platform-specific shared library filename.
// If version is negative, returns the unversioned library name.
//
// Examples:
//   - FormatLibraryName("EGL", 1) -> "libEGL.so.1"
//   - FormatLibraryName("gbm", 1) -> "libgbm.so.1"
//   - FormatLibraryName("gbm", -1) -> "libgbm.so"
func FormatLibraryName(name string, version int) string {
	if version < 0 {
		return fmt.Sprintf("lib%s.so", name)
	}
	return fmt.Sprintf("lib%s.so.%d", name, version)
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
