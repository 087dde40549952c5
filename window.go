//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

// Window is the native window descriptor a window surface is created
// against, mirroring the public fields of a GBM surface: dimensions, pixel
// format, and the memory-layout modifiers the client will accept.
//
// The priv field is the descriptor's reserved pointer-sized slot; the shim
// attaches its surface state there at creation time and detaches it at
// destruction.
type Window struct {
	Width  uint32
	Height uint32
	Format uint32 // DRM fourcc

	// Modifiers lists the memory-layout modifiers acceptable for buffers
	// produced into this window.
	Modifiers []uint64

	priv *Surface
}

// NewWindow describes a native window of the given dimensions and fourcc
// format accepting the listed layout modifiers.
func NewWindow(width, height, format uint32, modifiers []uint64) *Window {
	return &Window{
		Width:     width,
		Height:    height,
		Format:    format,
		Modifiers: modifiers,
	}
}

// surface returns the surface state attached to the window, or nil.
func (w *Window) surface() *Surface {
	if w == nil {
		return nil
	}
	return w.priv
}
