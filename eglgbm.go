//go:build (linux || freebsd) && (amd64 || arm64)

// Package eglgbm is a GBM platform shim over EGL image streams. It lets an
// EGL client present through GBM-style window buffers while frame production
// happens via the driver's stream extension, bridging the stream's
// add/remove/available event model to the GBM surface contract
// (HasFreeBuffers / LockFrontBuffer / ReleaseBuffer).
//
// A Platform binds a Driver (the real libEGL/libgbm via SystemDriver, or a
// scripted driver in tests) to a handle registry. Displays and surfaces are
// created through the Platform and addressed by opaque handles; the three
// buffer-cycling entry points hang off the Window the surface was created
// for.
//
// The shim is single-threaded by contract: every operation on a surface must
// run on the thread owning the EGL context, and none of them block.
package eglgbm

import (
	"github.com/obinnaokechukwu/eglgbm/internal/bindings"
)

// Init loads the EGL and GBM libraries. It is called implicitly by
// SystemDriver, but can be called explicitly to check for errors early. Safe
// to call multiple times.
func Init() error {
	return bindings.Load()
}

// IsLoaded returns true if the EGL and GBM libraries have been loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// NewSystemPlatform creates a Platform running against the system's EGL and
// GBM libraries.
func NewSystemPlatform() (*Platform, error) {
	drv, err := SystemDriver()
	if err != nil {
		return nil, err
	}
	return New(drv), nil
}
