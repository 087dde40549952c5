//go:build (linux || freebsd) && (amd64 || arm64)

package egl

import (
	"errors"
	"fmt"
)

// Error represents an EGL error.
type Error struct {
	Code int32  // Raw EGL error code (0x3000..0x300E)
	Op   string // Entry point that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("egl %s: %s (0x%04x)", e.Op, ErrorString(e.Code), e.Code)
}

// NewError creates an EGL error from an error code.
// Returns nil for Success.
func NewError(code int32, op string) error {
	if code == Success {
		return nil
	}
	return &Error{Code: code, Op: op}
}

func errorCode(code int32, op string) error {
	return NewError(code, op)
}

// Code returns the EGL error code from an error, or Success if err is not an
// EGL error.
func Code(err error) int32 {
	var eglErr *Error
	if errors.As(err, &eglErr) {
		return eglErr.Code
	}
	return Success
}

// ErrorString returns the symbolic name of an EGL error code.
func ErrorString(code int32) string {
	switch code {
	case Success:
		return "EGL_SUCCESS"
	case NotInitialized:
		return "EGL_NOT_INITIALIZED"
	case BadAccess:
		return "EGL_BAD_ACCESS"
	case BadAlloc:
		return "EGL_BAD_ALLOC"
	case BadAttribute:
		return "EGL_BAD_ATTRIBUTE"
	case BadConfig:
		return "EGL_BAD_CONFIG"
	case BadContext:
		return "EGL_BAD_CONTEXT"
	case BadCurrentSurface:
		return "EGL_BAD_CURRENT_SURFACE"
	case BadDisplay:
		return "EGL_BAD_DISPLAY"
	case BadMatch:
		return "EGL_BAD_MATCH"
	case BadNativePixmap:
		return "EGL_BAD_NATIVE_PIXMAP"
	case BadNativeWindow:
		return "EGL_BAD_NATIVE_WINDOW"
	case BadParameter:
		return "EGL_BAD_PARAMETER"
	case BadSurface:
		return "EGL_BAD_SURFACE"
	case ContextLost:
		return "EGL_CONTEXT_LOST"
	}
	return "unknown EGL error"
}
