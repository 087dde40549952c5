//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"github.com/obinnaokechukwu/eglgbm/internal/handles"
)

// Handle is an opaque identifier for a display or surface object. The zero
// Handle is never valid.
type Handle = handles.Handle

// Platform ties a Driver to a handle registry. Every entry point of the shim
// hangs off a Platform, so independent platforms (or tests simulating
// several displays) do not share state.
type Platform struct {
	drv Driver
	reg *handles.Registry
}

// New creates a platform running against drv.
func New(drv Driver) *Platform {
	return &Platform{
		drv: drv,
		reg: handles.NewRegistry(),
	}
}

// Display is the object behind a display handle: the driver-level display,
// the native buffer device used for imports, and the error sink.
type Display struct {
	platform *Platform
	devDpy   DeviceDisplay
	gbmDev   uintptr
	obj      *handles.Object

	// lastError is the one-deep error sink. Operations record the most
	// specific applicable error here; LastError reads and clears it.
	lastError ErrorCode
}

// CreateDisplay registers a display object wrapping the driver-level display
// devDpy and the native buffer device gbmDev.
func (p *Platform) CreateDisplay(devDpy DeviceDisplay, gbmDev uintptr) (Handle, error) {
	d := &Display{
		platform: p,
		devDpy:   devDpy,
		gbmDev:   gbmDev,
	}
	d.obj = handles.NewObject(handles.TypeDisplay, d, func() {
		logf(LogDebug, "display 0x%x released", devDpy)
	})

	h := p.reg.Add(d.obj)
	if h == 0 {
		return 0, ErrExhausted
	}
	return h, nil
}

// DestroyDisplay destroys the display behind h. Returns whether a live
// display was found. A display still referenced by surfaces stays alive
// until the last surface drops its reference; the handle goes stale once
// the reference count reaches zero.
func (p *Platform) DestroyDisplay(h Handle) bool {
	obj := p.reg.Ref(h)
	if obj == nil {
		return false
	}
	if obj.Type != handles.TypeDisplay {
		p.reg.Unref(obj)
		return false
	}
	p.reg.Unref(obj)
	return p.reg.UnrefHandle(h)
}

// LastError reads and clears the error sink of the display behind h.
// Returns Success for an unknown handle.
func (p *Platform) LastError(h Handle) ErrorCode {
	d := p.refDisplay(h)
	if d == nil {
		return Success
	}
	defer p.reg.Unref(d.obj)

	code := d.lastError
	d.lastError = Success
	return code
}

// NativeDisplay returns the driver-level display behind h, for code that
// talks to the driver directly. Returns 0 for a stale or non-display handle.
func (p *Platform) NativeDisplay(h Handle) DeviceDisplay {
	d := p.refDisplay(h)
	if d == nil {
		return 0
	}
	defer p.reg.Unref(d.obj)
	return d.devDpy
}

// refDisplay resolves h to a display, taking a reference on it. The caller
// must release the reference with p.reg.Unref(d.obj).
func (p *Platform) refDisplay(h Handle) *Display {
	obj := p.reg.Ref(h)
	if obj == nil {
		return nil
	}
	d, ok := obj.Value.(*Display)
	if !ok {
		p.reg.Unref(obj)
		return nil
	}
	return d
}

func (d *Display) setError(code ErrorCode) {
	d.lastError = code
	logf(LogError, "display 0x%x: %s", d.devDpy, code)
}
