//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

// fakeDriver is a scripted Driver for exercising the buffer-cycling core
// without a real EGL driver. Tests enqueue consumer events and acquirable
// images per stream and inspect what the core created and destroyed.
type fakeDriver struct {
	nextID uintptr

	configs map[Config]int32 // EGL_SURFACE_TYPE per config
	streams map[Stream]*fakeStream

	images   map[Image]Stream
	surfaces map[EGLSurface]Stream
	bos      map[BufferObject]BufferImport

	destroyedImages   []Image
	destroyedBuffers  []BufferObject
	destroyedSurfaces []EGLSurface
	destroyedStreams  []Stream
	released          []Image

	queries int // QueryStreamConsumerEvent calls
	imports int // successful ImportBuffer calls

	// addOnConnect enqueues that many image-add events when a consumer
	// connects, the way a driver populates a fresh stream.
	addOnConnect int

	failCreateStream  bool
	failConnect       bool
	failCreateImage   bool
	failCreateSurface bool
	failExportQuery   bool
	failExport        bool
	failImport        bool

	exportPlanes   int32
	exportFourcc   int32
	exportModifier uint64
}

type fakeStream struct {
	fifoLength int32
	connected  bool
	modifiers  []uint64

	events     []fakeEvent
	images     []Image // creation order
	acquirable []Image
}

type fakeEvent struct {
	kind StreamEvent
	aux  int64
}

const (
	fourccXR24 int32 = 0x34325258 // DRM_FORMAT_XRGB8888

	testConfig       Config        = 0x11
	testDeviceDpy    DeviceDisplay = 0xD15
	testNativeDevice uintptr       = 0x6B0
)

func newFakeDriver() *fakeDriver {
	f := &fakeDriver{
		nextID:         0x1000,
		configs:        map[Config]int32{},
		streams:        map[Stream]*fakeStream{},
		images:         map[Image]Stream{},
		surfaces:       map[EGLSurface]Stream{},
		bos:            map[BufferObject]BufferImport{},
		exportPlanes:   1,
		exportFourcc:   fourccXR24,
		exportModifier: 0x0100000000000002,
	}
	f.configs[testConfig] = StreamBit
	return f
}

func (f *fakeDriver) id() uintptr {
	f.nextID += 0x10
	return f.nextID
}

// enqueue appends a consumer event to a stream's queue.
func (f *fakeDriver) enqueue(stream Stream, kind StreamEvent, aux int64) {
	st := f.streams[stream]
	st.events = append(st.events, fakeEvent{kind: kind, aux: aux})
}

// produce makes img acquirable and signals availability, like a producer
// submitting a frame.
func (f *fakeDriver) produce(stream Stream, img Image) {
	st := f.streams[stream]
	st.acquirable = append(st.acquirable, img)
	f.enqueue(stream, EventImageAvailable, 0)
}

func (f *fakeDriver) GetConfigAttrib(dpy DeviceDisplay, config Config, attrib int32) (int32, bool) {
	if attrib != SurfaceTypeAttrib {
		return 0, false
	}
	val, ok := f.configs[config]
	return val, ok
}

func (f *fakeDriver) CreateStream(dpy DeviceDisplay, fifoLength int32) Stream {
	if f.failCreateStream {
		return 0
	}
	stream := f.id()
	f.streams[stream] = &fakeStream{fifoLength: fifoLength}
	return stream
}

func (f *fakeDriver) DestroyStream(dpy DeviceDisplay, stream Stream) {
	f.destroyedStreams = append(f.destroyedStreams, stream)
}

func (f *fakeDriver) StreamImageConsumerConnect(dpy DeviceDisplay, stream Stream, modifiers []uint64) bool {
	if f.failConnect {
		return false
	}
	st := f.streams[stream]
	st.connected = true
	st.modifiers = modifiers
	for i := 0; i < f.addOnConnect; i++ {
		f.enqueue(stream, EventImageAdd, 0)
	}
	return true
}

func (f *fakeDriver) QueryStreamConsumerEvent(dpy DeviceDisplay, stream Stream) (StreamEvent, int64, bool) {
	f.queries++
	st := f.streams[stream]
	if len(st.events) == 0 {
		return 0, 0, false
	}
	ev := st.events[0]
	st.events = st.events[1:]
	return ev.kind, ev.aux, true
}

func (f *fakeDriver) StreamAcquireImage(dpy DeviceDisplay, stream Stream) (Image, bool) {
	st := f.streams[stream]
	if len(st.acquirable) == 0 {
		return NoImage, false
	}
	img := st.acquirable[0]
	st.acquirable = st.acquirable[1:]
	return img, true
}

func (f *fakeDriver) StreamReleaseImage(dpy DeviceDisplay, stream Stream, img Image) bool {
	f.released = append(f.released, img)
	return true
}

func (f *fakeDriver) CreateStreamImage(dpy DeviceDisplay, stream Stream) Image {
	if f.failCreateImage {
		return NoImage
	}
	img := f.id()
	f.images[img] = stream
	f.streams[stream].images = append(f.streams[stream].images, img)
	return img
}

func (f *fakeDriver) DestroyImage(dpy DeviceDisplay, img Image) {
	f.destroyedImages = append(f.destroyedImages, img)
	delete(f.images, img)
}

func (f *fakeDriver) CreateStreamProducerSurface(dpy DeviceDisplay, config Config, stream Stream, width, height int32) EGLSurface {
	if f.failCreateSurface {
		return 0
	}
	surf := f.id()
	f.surfaces[surf] = stream
	return surf
}

func (f *fakeDriver) DestroySurface(dpy DeviceDisplay, surf EGLSurface) {
	f.destroyedSurfaces = append(f.destroyedSurfaces, surf)
	delete(f.surfaces, surf)
}

func (f *fakeDriver) ExportImageQuery(dpy DeviceDisplay, img Image) (int32, int32, uint64, bool) {
	if f.failExportQuery {
		return 0, 0, 0, false
	}
	return f.exportFourcc, f.exportPlanes, f.exportModifier, true
}

func (f *fakeDriver) ExportImage(dpy DeviceDisplay, img Image) (int, int32, int32, bool) {
	if f.failExport {
		return -1, 0, 0, false
	}
	return 42, 2560, 0, true
}

func (f *fakeDriver) ImportBuffer(dev uintptr, data *BufferImport) BufferObject {
	if f.failImport {
		return 0
	}
	bo := f.id()
	f.bos[bo] = *data
	f.imports++
	return bo
}

func (f *fakeDriver) DestroyBuffer(bo BufferObject) {
	f.destroyedBuffers = append(f.destroyedBuffers, bo)
	delete(f.bos, bo)
}
