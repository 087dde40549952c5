//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"fmt"

	"github.com/obinnaokechukwu/eglgbm/internal/handles"
)

// maxStreamImages bounds the number of images a stream can have in flight at
// once.
const maxStreamImages = 10

// streamFIFOLength is the stream depth requested at surface creation: one
// front buffer, one back buffer.
const streamFIFOLength = 2

// pumpLimit bounds a single event-drain pass. The pump terminates on the
// image-available event, which the driver re-reports for as long as a frame
// is ready; a driver that queues events without ever reporting availability
// violates its event contract, and the bound turns that into a detected
// failure instead of an unbounded loop.
const pumpLimit = 4 * maxStreamImages

// imageSlot pairs a stream image with its imported buffer object and lock
// state. A slot with no image and no buffer object is free.
type imageSlot struct {
	image  Image
	bo     BufferObject
	locked bool
}

// Surface is the object behind a window-surface handle: the stream it
// consumes images from, the rendering surface producing into that stream,
// and the slot ring mediating buffer ownership between the stream and the
// client.
type Surface struct {
	display *Display
	window  *Window
	obj     *handles.Object

	stream Stream
	egl    EGLSurface

	images     [maxStreamImages]imageSlot
	freeImages bool
}

// CreateWindowSurface creates a stream-backed window surface for w on the
// display behind dpy and attaches it to w's reserved slot. attribs is the
// caller's surface attribute list.
//
// Returns the zero Handle on failure, after tearing down every partially
// created resource and recording the most specific applicable error in the
// display's sink.
func (p *Platform) CreateWindowSurface(dpy Handle, config Config, w *Window, attribs []int32) Handle {
	d := p.refDisplay(dpy)
	if d == nil {
		// No display object; there is no sink to record an error in.
		return 0
	}

	// TODO: merge relevant caller attribs into the producer surface
	// attribute list.
	_ = attribs

	if w == nil {
		d.setError(BadNativeWindow)
		p.reg.Unref(d.obj)
		return 0
	}

	surfType, ok := p.drv.GetConfigAttrib(d.devDpy, config, SurfaceTypeAttrib)
	if !ok || surfType&StreamBit == 0 {
		d.setError(BadConfig)
		p.reg.Unref(d.obj)
		return 0
	}

	// The display reference taken above is retained by the surface from
	// here on; s.free releases it on every subsequent failure path.
	s := &Surface{
		display: d,
		window:  w,
	}

	s.stream = p.drv.CreateStream(d.devDpy, streamFIFOLength)
	if s.stream == 0 {
		s.free()
		d.setError(BadAlloc)
		return 0
	}

	if !p.drv.StreamImageConsumerConnect(d.devDpy, s.stream, w.Modifiers) {
		s.free()
		d.setError(BadAlloc)
		return 0
	}

	s.egl = p.drv.CreateStreamProducerSurface(d.devDpy, config, s.stream, int32(w.Width), int32(w.Height))
	if s.egl == 0 {
		s.free()
		d.setError(BadAlloc)
		return 0
	}

	// Drain the connection-time events so image slots exist before the
	// client asks for a buffer.
	if !s.pumpEvents() {
		s.free()
		d.setError(BadAlloc)
		return 0
	}

	s.obj = handles.NewObject(handles.TypeSurface, s, s.free)
	h := p.reg.Add(s.obj)
	if h == 0 {
		s.obj = nil
		s.free()
		d.setError(BadAlloc)
		return 0
	}

	w.priv = s
	logf(LogDebug, "surface %v created: %dx%d format 0x%08x", h, w.Width, w.Height, w.Format)
	return h
}

// DestroySurface destroys the surface behind surf on the display behind dpy.
// Returns whether a live surface was found and destroyed.
func (p *Platform) DestroySurface(dpy Handle, surf Handle) bool {
	d := p.refDisplay(dpy)
	if d == nil {
		return false
	}

	ret := false
	if obj := p.reg.Ref(surf); obj != nil {
		if _, ok := obj.Value.(*Surface); ok {
			p.reg.Unref(obj)
			ret = p.reg.UnrefHandle(surf)
		} else {
			p.reg.Unref(obj)
		}
	}

	p.reg.Unref(d.obj)
	return ret
}

// NativeSurface returns the underlying rendering surface behind surf, for
// display and context binding code. Returns 0 for a stale or non-surface
// handle.
func (p *Platform) NativeSurface(surf Handle) EGLSurface {
	obj := p.reg.Ref(surf)
	if obj == nil {
		return 0
	}
	defer p.reg.Unref(obj)

	s, ok := obj.Value.(*Surface)
	if !ok {
		return 0
	}
	return s.egl
}

// HasFreeBuffers reports whether the stream has a frame ready for
// LockFrontBuffer. Returns false when no surface is attached to the window.
func (w *Window) HasFreeBuffers() bool {
	s := w.surface()
	if s == nil {
		return false
	}

	if s.freeImages {
		return true
	}
	if !s.pumpEvents() {
		return false
	}
	return s.freeImages
}

// LockFrontBuffer acquires the stream's next ready frame and returns its
// buffer object, importing one from the image's backing memory on first
// lock. The buffer object is borrowed by the caller until ReleaseBuffer.
//
// Returns 0 when no surface is attached, no frame is ready (BadSurface in
// the display sink), or the import fails (BadAlloc).
func (w *Window) LockFrontBuffer() BufferObject {
	s := w.surface()
	if s == nil {
		return 0
	}
	d := s.display
	drv := d.platform.drv

	// Pump first so pending image-add events have materialized slots
	// before the acquire.
	if !s.pumpEvents() {
		return 0
	}

	img, ok := drv.StreamAcquireImage(d.devDpy, s.stream)
	if !ok {
		d.setError(BadSurface)
		return 0
	}

	s.freeImages = false

	slot := s.findImage(img)
	if slot == nil {
		panic(fmt.Sprintf("eglgbm: acquired image 0x%x does not belong to any slot", img))
	}
	slot.locked = true

	if slot.bo == 0 {
		fourcc, planes, modifier, ok := drv.ExportImageQuery(d.devDpy, img)
		if !ok {
			return s.lockFail(slot, img)
		}
		if planes != 1 {
			// Multi-planar formats are not supported.
			return s.lockFail(slot, img)
		}

		fd, stride, offset, ok := drv.ExportImage(d.devDpy, img)
		if !ok {
			return s.lockFail(slot, img)
		}

		slot.bo = drv.ImportBuffer(d.gbmDev, &BufferImport{
			Width:    w.Width,
			Height:   w.Height,
			Format:   uint32(fourcc),
			FD:       fd,
			Stride:   stride,
			Offset:   offset,
			Modifier: modifier,
		})
		if slot.bo == 0 {
			return s.lockFail(slot, img)
		}
	}

	return slot.bo
}

// lockFail unwinds a failed lock: the slot is unlocked, the allocation
// failure is recorded, and the just-acquired image goes back to the stream.
func (s *Surface) lockFail(slot *imageSlot, img Image) BufferObject {
	slot.locked = false
	d := s.display
	d.setError(BadAlloc)
	d.platform.drv.StreamReleaseImage(d.devDpy, s.stream, img)
	return 0
}

// ReleaseBuffer returns a buffer object obtained from LockFrontBuffer. If
// the backing image was removed from the stream while the buffer was locked,
// the buffer object is destroyed now and its slot becomes free; otherwise
// the image is released back to the producing stream.
//
// No-op when no surface is attached or bo is 0.
func (w *Window) ReleaseBuffer(bo BufferObject) {
	s := w.surface()
	if s == nil || bo == 0 {
		return
	}
	d := s.display

	img := NoImage
	found := false
	for i := range s.images {
		slot := &s.images[i]
		if slot.bo == bo {
			found = true
			slot.locked = false
			img = slot.image

			if img == NoImage {
				// The stream removed this image while it was
				// locked. Free the buffer object associated
				// with it as well.
				d.platform.drv.DestroyBuffer(slot.bo)
				slot.bo = 0
			}
			break
		}
	}

	if !found {
		panic(fmt.Sprintf("eglgbm: released buffer object 0x%x is not associated with any stream image", bo))
	}

	if img != NoImage {
		d.platform.drv.StreamReleaseImage(d.devDpy, s.stream, img)
	}
}

// pumpEvents drains pending stream consumer events, creating and removing
// image slots as directed, until the driver reports no further events or
// signals image availability.
//
// The image-available event is not cleared by querying it and the driver
// emits it after any add/remove events in a batch, so it doubles as the
// drain terminator whenever a frame is ready.
//
// Returns false only when an image-add event could not be satisfied.
func (s *Surface) pumpEvents() bool {
	d := s.display
	drv := d.platform.drv

	s.freeImages = false

	for n := 0; !s.freeImages; n++ {
		if n >= pumpLimit {
			panic("eglgbm: stream event pump did not terminate; driver never signaled image availability")
		}

		event, aux, ok := drv.QueryStreamConsumerEvent(d.devDpy, s.stream)
		if !ok {
			break
		}

		switch event {
		case EventImageAvailable:
			s.freeImages = true

		case EventImageAdd:
			if !s.addImage() {
				return false
			}

		case EventImageRemove:
			s.removeImage(Image(aux))

		default:
			panic(fmt.Sprintf("eglgbm: unhandled stream consumer event 0x%04x", uint32(event)))
		}
	}

	return true
}

// addImage binds a new stream image into the first free slot. Returns false
// when image creation fails or no slot is free, signaling resource
// exhaustion.
func (s *Surface) addImage() bool {
	d := s.display
	for i := range s.images {
		slot := &s.images[i]
		if slot.image == NoImage && slot.bo == 0 {
			slot.image = d.platform.drv.CreateStreamImage(d.devDpy, s.stream)
			return slot.image != NoImage
		}
	}
	return false
}

// removeImage destroys the slot's image. The buffer object is destroyed with
// it unless the slot is locked, in which case the slot keeps the buffer
// object so ReleaseBuffer can finish the cleanup.
func (s *Surface) removeImage(img Image) {
	d := s.display
	for i := range s.images {
		slot := &s.images[i]
		if slot.image == img {
			d.platform.drv.DestroyImage(d.devDpy, img)
			slot.image = NoImage
			if !slot.locked && slot.bo != 0 {
				d.platform.drv.DestroyBuffer(slot.bo)
				slot.bo = 0
			}
			break
		}
	}
}

func (s *Surface) findImage(img Image) *imageSlot {
	for i := range s.images {
		if s.images[i].image == img {
			return &s.images[i]
		}
	}
	return nil
}

// free releases everything the surface owns: every live image and buffer
// object, the rendering surface, the stream, the window attachment, and the
// reference on the parent display taken at creation time.
func (s *Surface) free() {
	d := s.display
	drv := d.platform.drv

	for i := range s.images {
		slot := &s.images[i]
		if slot.image != NoImage {
			drv.DestroyImage(d.devDpy, slot.image)
			slot.image = NoImage
		}
		if slot.bo != 0 {
			drv.DestroyBuffer(slot.bo)
			slot.bo = 0
		}
		slot.locked = false
	}

	if s.egl != 0 {
		drv.DestroySurface(d.devDpy, s.egl)
		s.egl = 0
	}
	if s.stream != 0 {
		drv.DestroyStream(d.devDpy, s.stream)
		s.stream = 0
	}

	if s.window != nil && s.window.priv == s {
		s.window.priv = nil
	}

	// Drop the reference to the display acquired at creation time.
	d.platform.reg.Unref(d.obj)
}
