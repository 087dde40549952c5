//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"github.com/obinnaokechukwu/eglgbm/egl"
)

// Opaque driver object types. These are EGL/GBM object pointers on the real
// driver; a test driver may use any non-zero values.
type (
	// DeviceDisplay is the driver-level EGLDisplay a display object wraps.
	DeviceDisplay = uintptr

	// Config is an EGLConfig.
	Config = uintptr

	// EGLSurface is the underlying rendering surface of a window surface.
	EGLSurface = uintptr

	// Stream is the producer/consumer stream a surface cycles buffers
	// through.
	Stream = uintptr

	// Image is a stream consumer image.
	Image = uintptr

	// BufferObject is an imported platform buffer object, handed to the
	// consumer by LockFrontBuffer and returned via ReleaseBuffer.
	BufferObject = uintptr
)

// NoImage is the null Image value.
const NoImage Image = 0

// StreamEvent identifies a stream consumer event kind. Values follow the
// EGL_NV_stream_consumer_eglimage enumerants.
type StreamEvent uint32

// Stream consumer event kinds.
const (
	// EventImageAdd asks the consumer to create and bind a new image to
	// the stream.
	EventImageAdd = StreamEvent(egl.StreamImageAddNV)

	// EventImageRemove tells the consumer an image was detached from the
	// stream; its aux payload carries the image.
	EventImageRemove = StreamEvent(egl.StreamImageRemoveNV)

	// EventImageAvailable signals a frame is ready to acquire. The driver
	// does not clear this event when it is queried.
	EventImageAvailable = StreamEvent(egl.StreamImageAvailableNV)
)

// SurfaceTypeAttrib is the config attribute naming the surface kinds a
// config supports.
const SurfaceTypeAttrib = egl.SurfaceType

// StreamBit is the EGL_SURFACE_TYPE bit marking stream-based presentation
// support.
const StreamBit = egl.StreamBitKHR

// BufferImport describes a single-plane DMA-buf to import as a buffer
// object. Multi-planar and multi-memory-object formats are not supported by
// this shim.
type BufferImport struct {
	Width    uint32
	Height   uint32
	Format   uint32 // DRM fourcc
	FD       int
	Stride   int32
	Offset   int32
	Modifier uint64
}

// Driver is the platform function table the shim runs against. The system
// driver (SystemDriver) binds it to libEGL and libgbm; tests substitute a
// scripted implementation.
//
// All calls are synchronous and complete or fail immediately; any waiting
// happens inside the driver.
type Driver interface {
	// GetConfigAttrib queries one attribute of a config.
	GetConfigAttrib(dpy DeviceDisplay, config Config, attrib int32) (int32, bool)

	// CreateStream creates a stream holding at most fifoLength in-flight
	// images. Returns 0 on failure.
	CreateStream(dpy DeviceDisplay, fifoLength int32) Stream

	// DestroyStream destroys a stream.
	DestroyStream(dpy DeviceDisplay, stream Stream)

	// StreamImageConsumerConnect connects the image consumer to a stream,
	// declaring the memory-layout modifiers the consumer accepts.
	StreamImageConsumerConnect(dpy DeviceDisplay, stream Stream, modifiers []uint64) bool

	// QueryStreamConsumerEvent dequeues one pending consumer event.
	// Returns ok=false when no event is pending.
	QueryStreamConsumerEvent(dpy DeviceDisplay, stream Stream) (event StreamEvent, aux int64, ok bool)

	// StreamAcquireImage hands over the stream's next ready image.
	StreamAcquireImage(dpy DeviceDisplay, stream Stream) (Image, bool)

	// StreamReleaseImage returns an acquired image to the stream.
	StreamReleaseImage(dpy DeviceDisplay, stream Stream, img Image) bool

	// CreateStreamImage creates an image bound to the stream's consumer
	// side. Returns NoImage on failure.
	CreateStreamImage(dpy DeviceDisplay, stream Stream) Image

	// DestroyImage destroys a stream image.
	DestroyImage(dpy DeviceDisplay, img Image)

	// CreateStreamProducerSurface creates a rendering surface producing
	// into the stream. Returns 0 on failure.
	CreateStreamProducerSurface(dpy DeviceDisplay, config Config, stream Stream, width, height int32) EGLSurface

	// DestroySurface destroys a rendering surface.
	DestroySurface(dpy DeviceDisplay, surf EGLSurface)

	// ExportImageQuery returns the fourcc format, plane count, and layout
	// modifier of an image's backing memory.
	ExportImageQuery(dpy DeviceDisplay, img Image) (fourcc int32, planes int32, modifier uint64, ok bool)

	// ExportImage exports a single-plane image's backing memory as a
	// DMA-buf descriptor. The caller owns the descriptor.
	ExportImage(dpy DeviceDisplay, img Image) (fd int, stride, offset int32, ok bool)

	// ImportBuffer imports a DMA-buf as a buffer object on the given
	// native device. Returns 0 on failure. The driver takes ownership of
	// the descriptor in data and closes it whether or not the import
	// succeeds.
	ImportBuffer(dev uintptr, data *BufferImport) BufferObject

	// DestroyBuffer destroys an imported buffer object.
	DestroyBuffer(bo BufferObject)
}
