//go:build (linux || freebsd) && (amd64 || arm64)

// Package egl provides bindings to libEGL for the subset of EGL used by the
// GBM platform shim: config queries, KHR streams and the NV image-consumer
// extension, and MESA DMA-buf image export.
//
// Core EGL 1.x entry points are resolved from libEGL directly. Extension
// entry points are resolved through eglGetProcAddress; a wrapper whose entry
// point the driver does not export fails with false or a null object.
package egl

import (
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/eglgbm/internal/bindings"
)

// Opaque EGL object types.
type (
	// Display is an EGLDisplay.
	Display = uintptr

	// Config is an EGLConfig.
	Config = uintptr

	// Surface is an EGLSurface.
	Surface = uintptr

	// Stream is an EGLStreamKHR.
	Stream = uintptr

	// Image is an EGLImageKHR.
	Image = uintptr

	// Sync is an EGLSyncKHR.
	Sync = uintptr
)

// Null object values.
const (
	NoDisplay Display = 0
	NoContext uintptr = 0
	NoSurface Surface = 0
	NoStream  Stream  = 0
	NoImage   Image   = 0
	NoSync    Sync    = 0
)

// EGL error codes.
const (
	Success           int32 = 0x3000
	NotInitialized    int32 = 0x3001
	BadAccess         int32 = 0x3002
	BadAlloc          int32 = 0x3003
	BadAttribute      int32 = 0x3004
	BadConfig         int32 = 0x3005
	BadContext        int32 = 0x3006
	BadCurrentSurface int32 = 0x3007
	BadDisplay        int32 = 0x3008
	BadMatch          int32 = 0x3009
	BadNativePixmap   int32 = 0x300A
	BadNativeWindow   int32 = 0x300B
	BadParameter      int32 = 0x300C
	BadSurface        int32 = 0x300D
	ContextLost       int32 = 0x300E
)

// Attribute names and values.
const (
	None        int32 = 0x3038
	Height      int32 = 0x3056
	Width       int32 = 0x3057
	SurfaceType int32 = 0x3033

	// EGL_KHR_stream / EGL_KHR_stream_fifo
	StreamBitKHR        int32 = 0x0800
	StreamFIFOLengthKHR int32 = 0x31FC

	// EGL_EXT_platform_device / EGL_KHR_platform_gbm
	PlatformDeviceEXT uint32 = 0x313F
	PlatformGBMKHR    uint32 = 0x31D7
)

// EGL_NV_stream_consumer_eglimage enumerants.
const (
	StreamConsumerImageNV  uint32 = 0x3373
	StreamImageAddNV       uint32 = 0x3374
	StreamImageRemoveNV    uint32 = 0x3375
	StreamImageAvailableNV uint32 = 0x3376
)

// Core function bindings - resolved from libEGL with dlsym.
var (
	eglGetError        func() int32
	eglInitialize      func(dpy uintptr, major, minor *int32) uint32
	eglTerminate       func(dpy uintptr) uint32
	eglChooseConfig    func(dpy uintptr, attribs *int32, configs *uintptr, configSize int32, numConfig *int32) uint32
	eglGetConfigAttrib func(dpy, config uintptr, attrib int32, value *int32) uint32
	eglDestroySurface  func(dpy, surface uintptr) uint32
	eglQueryString     func(dpy uintptr, name int32) *byte
)

// Extension function bindings - resolved through eglGetProcAddress.
var (
	eglGetPlatformDisplayEXT          func(platform uint32, native uintptr, attribs *int32) uintptr
	eglCreateStreamKHR                func(dpy uintptr, attribs *int32) uintptr
	eglDestroyStreamKHR               func(dpy, stream uintptr) uint32
	eglStreamImageConsumerConnectNV   func(dpy, stream uintptr, numModifiers int32, modifiers *uint64, attribs *int64) uint32
	eglQueryStreamConsumerEventNV     func(dpy, stream uintptr, timeout uint64, event *uint32, aux *int64) int32
	eglStreamAcquireImageNV           func(dpy, stream uintptr, image *uintptr, sync uintptr) uint32
	eglStreamReleaseImageNV           func(dpy, stream, image, sync uintptr) uint32
	eglCreateImageKHR                 func(dpy, ctx uintptr, target uint32, buffer uintptr, attribs *int32) uintptr
	eglDestroyImageKHR                func(dpy, image uintptr) uint32
	eglCreateStreamProducerSurfaceKHR func(dpy, config, stream uintptr, attribs *int32) uintptr
	eglExportDMABUFImageQueryMESA     func(dpy, image uintptr, fourcc, numPlanes *int32, modifiers *uint64) uint32
	eglExportDMABUFImageMESA          func(dpy, image uintptr, fds, strides, offsets *int32) uint32
)

var bindingsRegistered bool

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return // Wrappers fail individually when called.
	}

	lib := bindings.LibEGL()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&eglGetError, lib, "eglGetError")
	purego.RegisterLibFunc(&eglInitialize, lib, "eglInitialize")
	purego.RegisterLibFunc(&eglTerminate, lib, "eglTerminate")
	purego.RegisterLibFunc(&eglChooseConfig, lib, "eglChooseConfig")
	purego.RegisterLibFunc(&eglGetConfigAttrib, lib, "eglGetConfigAttrib")
	purego.RegisterLibFunc(&eglDestroySurface, lib, "eglDestroySurface")
	purego.RegisterLibFunc(&eglQueryString, lib, "eglQueryString")

	registerExt(&eglGetPlatformDisplayEXT, "eglGetPlatformDisplayEXT")
	registerExt(&eglCreateStreamKHR, "eglCreateStreamKHR")
	registerExt(&eglDestroyStreamKHR, "eglDestroyStreamKHR")
	registerExt(&eglStreamImageConsumerConnectNV, "eglStreamImageConsumerConnectNV")
	registerExt(&eglQueryStreamConsumerEventNV, "eglQueryStreamConsumerEventNV")
	registerExt(&eglStreamAcquireImageNV, "eglStreamAcquireImageNV")
	registerExt(&eglStreamReleaseImageNV, "eglStreamReleaseImageNV")
	registerExt(&eglCreateImageKHR, "eglCreateImageKHR")
	registerExt(&eglDestroyImageKHR, "eglDestroyImageKHR")
	registerExt(&eglCreateStreamProducerSurfaceKHR, "eglCreateStreamProducerSurfaceKHR")
	registerExt(&eglExportDMABUFImageQueryMESA, "eglExportDMABUFImageQueryMESA")
	registerExt(&eglExportDMABUFImageMESA, "eglExportDMABUFImageMESA")

	bindingsRegistered = true
}

// registerExt binds an extension entry point, leaving the function nil when
// the driver does not export it.
func registerExt[T any](fn *T, name string) {
	if addr := bindings.ProcAddress(name); addr != 0 {
		purego.RegisterFunc(fn, addr)
	}
}

// GetError returns the current EGL error code for the calling thread.
func GetError() int32 {
	if eglGetError == nil {
		return NotInitialized
	}
	return eglGetError()
}

// GetPlatformDisplay returns the EGLDisplay for a platform-specific native
// display (an EGLDeviceEXT or a gbm_device).
func GetPlatformDisplay(platform uint32, native uintptr, attribs []int32) Display {
	if eglGetPlatformDisplayEXT == nil {
		return NoDisplay
	}
	return eglGetPlatformDisplayEXT(platform, native, attribList(attribs))
}

// Initialize initializes the EGL display and returns its version.
func Initialize(dpy Display) (major, minor int32, err error) {
	if eglInitialize == nil {
		return 0, 0, bindings.ErrNotLoaded
	}
	if eglInitialize(dpy, &major, &minor) == 0 {
		return 0, 0, errorCode(GetError(), "eglInitialize")
	}
	return major, minor, nil
}

// Terminate terminates the EGL display.
func Terminate(dpy Display) {
	if eglTerminate == nil {
		return
	}
	eglTerminate(dpy)
}

// ChooseConfig returns up to limit configs matching the attribute list, best
// match first.
func ChooseConfig(dpy Display, attribs []int32, limit int) []Config {
	if eglChooseConfig == nil || limit <= 0 {
		return nil
	}
	configs := make([]Config, limit)
	var n int32
	if eglChooseConfig(dpy, attribList(attribs), &configs[0], int32(limit), &n) == 0 {
		return nil
	}
	return configs[:n]
}

// GetConfigAttrib queries one attribute of an EGLConfig.
func GetConfigAttrib(dpy Display, config Config, attrib int32) (int32, bool) {
	if eglGetConfigAttrib == nil {
		return 0, false
	}
	var value int32
	if eglGetConfigAttrib(dpy, config, attrib, &value) == 0 {
		return 0, false
	}
	return value, true
}

// CreateStream creates an EGLStreamKHR.
func CreateStream(dpy Display, attribs []int32) Stream {
	if eglCreateStreamKHR == nil {
		return NoStream
	}
	return eglCreateStreamKHR(dpy, attribList(attribs))
}

// DestroyStream destroys a stream. Safe to call with NoStream.
func DestroyStream(dpy Display, stream Stream) {
	if stream == NoStream || eglDestroyStreamKHR == nil {
		return
	}
	eglDestroyStreamKHR(dpy, stream)
}

// StreamImageConsumerConnect connects the EGLImage consumer to a stream,
// declaring the memory-layout modifiers the consumer accepts.
func StreamImageConsumerConnect(dpy Display, stream Stream, modifiers []uint64) bool {
	if eglStreamImageConsumerConnectNV == nil {
		return false
	}
	var mods *uint64
	if len(modifiers) > 0 {
		mods = &modifiers[0]
	}
	return eglStreamImageConsumerConnectNV(dpy, stream, int32(len(modifiers)), mods, nil) != 0
}

// QueryStreamConsumerEvent dequeues one consumer event from the stream.
// Returns ok=false when no event is pending within the timeout.
func QueryStreamConsumerEvent(dpy Display, stream Stream, timeout uint64) (event uint32, aux int64, ok bool) {
	if eglQueryStreamConsumerEventNV == nil {
		return 0, 0, false
	}
	status := eglQueryStreamConsumerEventNV(dpy, stream, timeout, &event, &aux)
	return event, aux, status == 1
}

// StreamAcquireImage acquires the next ready image from the stream.
func StreamAcquireImage(dpy Display, stream Stream) (Image, bool) {
	if eglStreamAcquireImageNV == nil {
		return NoImage, false
	}
	var img uintptr
	if eglStreamAcquireImageNV(dpy, stream, &img, NoSync) == 0 {
		return NoImage, false
	}
	return img, true
}

// StreamReleaseImage returns an acquired image to the stream.
func StreamReleaseImage(dpy Display, stream Stream, image Image) bool {
	if eglStreamReleaseImageNV == nil {
		return false
	}
	return eglStreamReleaseImageNV(dpy, stream, image, NoSync) != 0
}

// CreateStreamImage creates an EGLImage bound to a stream's consumer side.
func CreateStreamImage(dpy Display, stream Stream) Image {
	if eglCreateImageKHR == nil {
		return NoImage
	}
	return eglCreateImageKHR(dpy, NoContext, StreamConsumerImageNV, stream, nil)
}

// DestroyImage destroys an EGLImage. Safe to call with NoImage.
func DestroyImage(dpy Display, image Image) {
	if image == NoImage || eglDestroyImageKHR == nil {
		return
	}
	eglDestroyImageKHR(dpy, image)
}

// CreateStreamProducerSurface creates a surface that produces frames into a
// stream.
func CreateStreamProducerSurface(dpy Display, config Config, stream Stream, width, height int32) Surface {
	if eglCreateStreamProducerSurfaceKHR == nil {
		return NoSurface
	}
	attribs := []int32{
		Width, width,
		Height, height,
		None,
	}
	return eglCreateStreamProducerSurfaceKHR(dpy, config, stream, &attribs[0])
}

// DestroySurface destroys an EGLSurface. Safe to call with NoSurface.
func DestroySurface(dpy Display, surface Surface) {
	if surface == NoSurface || eglDestroySurface == nil {
		return
	}
	eglDestroySurface(dpy, surface)
}

// ExportDMABUFImageQuery queries the fourcc format, plane count, and layout
// modifier of an image's backing memory.
func ExportDMABUFImageQuery(dpy Display, image Image) (fourcc int32, planes int32, modifier uint64, ok bool) {
	if eglExportDMABUFImageQueryMESA == nil {
		return 0, 0, 0, false
	}
	if eglExportDMABUFImageQueryMESA(dpy, image, &fourcc, &planes, &modifier) == 0 {
		return 0, 0, 0, false
	}
	return fourcc, planes, modifier, true
}

// ExportDMABUFImage exports the backing memory of a single-plane image as a
// DMA-buf file descriptor. The caller owns the descriptor.
func ExportDMABUFImage(dpy Display, image Image) (fd, stride, offset int32, ok bool) {
	if eglExportDMABUFImageMESA == nil {
		return -1, 0, 0, false
	}
	if eglExportDMABUFImageMESA(dpy, image, &fd, &stride, &offset) == 0 {
		return -1, 0, 0, false
	}
	return fd, stride, offset, true
}

// extensionsName is the EGL_EXTENSIONS string name.
const extensionsName int32 = 0x3055

// QueryExtensions returns the extension string of a display.
func QueryExtensions(dpy Display) string {
	if eglQueryString == nil {
		return ""
	}
	return goString(eglQueryString(dpy, extensionsName))
}

// HasExtension reports whether the display's extension string contains name.
func HasExtension(dpy Display, name string) bool {
	for _, ext := range strings.Fields(QueryExtensions(dpy)) {
		if ext == name {
			return true
		}
	}
	return false
}

func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for ptr := unsafe.Pointer(p); *(*byte)(ptr) != 0; ptr = unsafe.Add(ptr, 1) {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// attribList returns a pointer to an EGL_NONE-terminated attribute list, or
// nil for an empty list.
func attribList(attribs []int32) *int32 {
	if len(attribs) == 0 {
		return nil
	}
	if attribs[len(attribs)-1] != None {
		attribs = append(attribs, None)
	}
	return &attribs[0]
}
