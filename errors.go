//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"errors"

	"github.com/obinnaokechukwu/eglgbm/egl"
)

// EGLError is an error carrying a raw EGL error code and the entry point
// that produced it.
type EGLError = egl.Error

// Common errors
var (
	// ErrNotLoaded indicates the EGL/GBM libraries are not loaded.
	ErrNotLoaded = errors.New("eglgbm: EGL/GBM libraries not loaded")

	// ErrBadHandle indicates a stale or unknown object handle.
	ErrBadHandle = errors.New("eglgbm: stale or unknown handle")

	// ErrExhausted indicates the handle registry is full.
	ErrExhausted = errors.New("eglgbm: handle registry exhausted")
)

// ErrorCode is an EGL error code as reported through a display's error sink.
// A display holds one active error at a time; reading it resets the sink to
// Success, matching eglGetError semantics.
type ErrorCode int32

// Error taxonomy of the buffer-cycling core.
const (
	// Success means no error is pending.
	Success = ErrorCode(egl.Success)

	// BadAlloc covers out-of-memory and every image/stream/surface
	// creation or buffer-object import failure.
	BadAlloc = ErrorCode(egl.BadAlloc)

	// BadConfig means the chosen configuration does not support
	// stream-based presentation.
	BadConfig = ErrorCode(egl.BadConfig)

	// BadDisplay means the display handle did not resolve.
	BadDisplay = ErrorCode(egl.BadDisplay)

	// BadNativeWindow means the native window descriptor is missing or
	// invalid.
	BadNativeWindow = ErrorCode(egl.BadNativeWindow)

	// BadSurface means no image is ready to acquire from the producing
	// stream.
	BadSurface = ErrorCode(egl.BadSurface)
)

// String returns the symbolic EGL name of the code.
func (c ErrorCode) String() string {
	return egl.ErrorString(int32(c))
}

// NewError creates an error from an EGL error code. Returns nil for Success.
func NewError(code ErrorCode, op string) error {
	return egl.NewError(int32(code), op)
}

// Code returns the EGL error code from an error, or Success if err is not an
// EGL error.
func Code(err error) ErrorCode {
	return ErrorCode(egl.Code(err))
}
