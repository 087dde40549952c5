//go:build (linux || freebsd) && (amd64 || arm64)

// Package gbm provides bindings to libgbm for buffer-object import and
// destruction. Only the DMA-buf import path used by the EGL stream shim is
// bound; allocation-side entry points (gbm_bo_create and friends) belong to
// the GBM client, not to this module.
package gbm

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/eglgbm/internal/bindings"
)

// Device is an opaque gbm_device pointer.
type Device = uintptr

// BO is an opaque gbm_bo pointer.
type BO = uintptr

// Import types from gbm.h.
const (
	ImportWLBuffer   uint32 = 0x5501
	ImportEGLImage   uint32 = 0x5502
	ImportFD         uint32 = 0x5503
	ImportFDModifier uint32 = 0x5504
)

// maxPlanes mirrors GBM_MAX_PLANES.
const maxPlanes = 4

// importFDModifierData mirrors struct gbm_import_fd_modifier_data. The field
// order and sizes must match the C layout exactly; the struct is handed to
// gbm_bo_import by pointer.
type importFDModifierData struct {
	Width    uint32
	Height   uint32
	Format   uint32
	NumFDs   uint32
	FDs      [maxPlanes]int32
	Strides  [maxPlanes]int32
	Offsets  [maxPlanes]int32
	Modifier uint64
}

// Function bindings - registered at init.
var (
	gbmCreateDevice  func(fd int32) uintptr
	gbmDeviceDestroy func(dev uintptr)
	gbmBoImport      func(dev uintptr, typ uint32, buffer unsafe.Pointer, flags uint32) uintptr
	gbmBoDestroy     func(bo uintptr)
	gbmBoGetWidth    func(bo uintptr) uint32
	gbmBoGetHeight   func(bo uintptr) uint32
	gbmBoGetFormat   func(bo uintptr) uint32
	gbmBoGetStride   func(bo uintptr) uint32
	gbmBoGetModifier func(bo uintptr) uint64
	gbmBoGetHandle   func(bo uintptr) uint64
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
		return
	}

	lib := bindings.LibGBM()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&gbmCreateDevice, lib, "gbm_create_device")
	purego.RegisterLibFunc(&gbmDeviceDestroy, lib, "gbm_device_destroy")
	purego.RegisterLibFunc(&gbmBoImport, lib, "gbm_bo_import")
	purego.RegisterLibFunc(&gbmBoDestroy, lib, "gbm_bo_destroy")
	purego.RegisterLibFunc(&gbmBoGetWidth, lib, "gbm_bo_get_width")
	purego.RegisterLibFunc(&gbmBoGetHeight, lib, "gbm_bo_get_height")
	purego.RegisterLibFunc(&gbmBoGetFormat, lib, "gbm_bo_get_format")
	purego.RegisterLibFunc(&gbmBoGetStride, lib, "gbm_bo_get_stride")
	purego.RegisterLibFunc(&gbmBoGetModifier, lib, "gbm_bo_get_modifier")
	purego.RegisterLibFunc(&gbmBoGetHandle, lib, "gbm_bo_get_handle")

	bindingsRegistered = true
}

// CreateDevice creates a gbm_device for a DRM file descriptor.
func CreateDevice(fd int) Device {
	if gbmCreateDevice == nil {
		return 0
	}
	return gbmCreateDevice(int32(fd))
}

// DeviceDestroy destroys a gbm_device. Safe to call with 0.
func DeviceDestroy(dev Device) {
	if dev == 0 || gbmDeviceDestroy == nil {
		return
	}
	gbmDeviceDestroy(dev)
}

// BOImportFDModifier imports a single-plane DMA-buf as a buffer object. The
// file descriptor is not consumed; the caller still owns it afterwards.
func BOImportFDModifier(dev Device, width, height, format uint32, fd int, stride, offset int32, modifier uint64) BO {
	if dev == 0 || gbmBoImport == nil {
		return 0
	}
	data := importFDModifierData{
		Width:    width,
		Height:   height,
		Format:   format,
		NumFDs:   1,
		Modifier: modifier,
	}
	data.FDs[0] = int32(fd)
	data.Strides[0] = stride
	data.Offsets[0] = offset
	return gbmBoImport(dev, ImportFDModifier, unsafe.Pointer(&data), 0)
}

// BODestroy destroys a buffer object. Safe to call with 0.
func BODestroy(bo BO) {
	if bo == 0 || gbmBoDestroy == nil {
		return
	}
	gbmBoDestroy(bo)
}

// BOWidth returns the width of a buffer object.
func BOWidth(bo BO) uint32 {
	if bo == 0 || gbmBoGetWidth == nil {
		return 0
	}
	return gbmBoGetWidth(bo)
}

// BOHeight returns the height of a buffer object.
func BOHeight(bo BO) uint32 {
	if bo == 0 || gbmBoGetHeight == nil {
		return 0
	}
	return gbmBoGetHeight(bo)
}

// BOFormat returns the fourcc format of a buffer object.
func BOFormat(bo BO) uint32 {
	if bo == 0 || gbmBoGetFormat == nil {
		return 0
	}
	return gbmBoGetFormat(bo)
}

// BOStride returns the row stride of a buffer object.
func BOStride(bo BO) uint32 {
	if bo == 0 || gbmBoGetStride == nil {
		return 0
	}
	return gbmBoGetStride(bo)
}

// BOHandle returns the driver-specific handle of a buffer object, as needed
// for KMS framebuffer setup.
func BOHandle(bo BO) uint64 {
	if bo == 0 || gbmBoGetHandle == nil {
		return 0
	}
	return gbmBoGetHandle(bo)
}

// BOModifier returns the memory-layout modifier of a buffer object.
func BOModifier(bo BO) uint64 {
	if bo == 0 || gbmBoGetModifier == nil {
		return 0
	}
	return gbmBoGetModifier(bo)
}
