//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"github.com/obinnaokechukwu/eglgbm/egl"
	"github.com/obinnaokechukwu/eglgbm/gbm"
	"github.com/obinnaokechukwu/eglgbm/internal/bindings"
	"golang.org/x/sys/unix"
)

// systemDriver implements Driver on the real libEGL and libgbm.
type systemDriver struct{}

// SystemDriver returns a Driver backed by the system's EGL and GBM
// libraries, loading them if necessary.
func SystemDriver() (Driver, error) {
	if err := bindings.Load(); err != nil {
		return nil, err
	}
	return systemDriver{}, nil
}

func (systemDriver) GetConfigAttrib(dpy DeviceDisplay, config Config, attrib int32) (int32, bool) {
	return egl.GetConfigAttrib(dpy, config, attrib)
}

func (systemDriver) CreateStream(dpy DeviceDisplay, fifoLength int32) Stream {
	return egl.CreateStream(dpy, []int32{egl.StreamFIFOLengthKHR, fifoLength})
}

func (systemDriver) DestroyStream(dpy DeviceDisplay, stream Stream) {
	egl.DestroyStream(dpy, stream)
}

func (systemDriver) StreamImageConsumerConnect(dpy DeviceDisplay, stream Stream, modifiers []uint64) bool {
	return egl.StreamImageConsumerConnect(dpy, stream, modifiers)
}

func (systemDriver) QueryStreamConsumerEvent(dpy DeviceDisplay, stream Stream) (StreamEvent, int64, bool) {
	event, aux, ok := egl.QueryStreamConsumerEvent(dpy, stream, 0)
	return StreamEvent(event), aux, ok
}

func (systemDriver) StreamAcquireImage(dpy DeviceDisplay, stream Stream) (Image, bool) {
	return egl.StreamAcquireImage(dpy, stream)
}

func (systemDriver) StreamReleaseImage(dpy DeviceDisplay, stream Stream, img Image) bool {
	return egl.StreamReleaseImage(dpy, stream, img)
}

func (systemDriver) CreateStreamImage(dpy DeviceDisplay, stream Stream) Image {
	return egl.CreateStreamImage(dpy, stream)
}

func (systemDriver) DestroyImage(dpy DeviceDisplay, img Image) {
	egl.DestroyImage(dpy, img)
}

func (systemDriver) CreateStreamProducerSurface(dpy DeviceDisplay, config Config, stream Stream, width, height int32) EGLSurface {
	return egl.CreateStreamProducerSurface(dpy, config, stream, width, height)
}

func (systemDriver) DestroySurface(dpy DeviceDisplay, surf EGLSurface) {
	egl.DestroySurface(dpy, surf)
}

func (systemDriver) ExportImageQuery(dpy DeviceDisplay, img Image) (int32, int32, uint64, bool) {
	return egl.ExportDMABUFImageQuery(dpy, img)
}

func (systemDriver) ExportImage(dpy DeviceDisplay, img Image) (int, int32, int32, bool) {
	fd, stride, offset, ok := egl.ExportDMABUFImage(dpy, img)
	return int(fd), stride, offset, ok
}

func (systemDriver) ImportBuffer(dev uintptr, data *BufferImport) BufferObject {
	bo := gbm.BOImportFDModifier(dev, data.Width, data.Height, data.Format,
		data.FD, data.Stride, data.Offset, data.Modifier)

	// gbm_bo_import dups the descriptor; ours is no longer needed whether
	// or not the import succeeded.
	if data.FD >= 0 {
		unix.Close(data.FD)
	}
	return bo
}

func (systemDriver) DestroyBuffer(bo BufferObject) {
	gbm.BODestroy(bo)
}
