//go:build (linux || freebsd) && (amd64 || arm64)

// Package bindings handles loading the EGL and GBM shared libraries and
// resolving entry points using purego.
//
// Core EGL 1.x entry points are resolved with dlsym. Everything from the
// stream and image extensions has to go through eglGetProcAddress instead;
// those addresses are exposed via ProcAddress and turned into Go functions
// with purego.RegisterFunc by the egl package.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/eglgbm/internal/platform"
)

// ErrNotLoaded is returned when entry points are used before Load().
var ErrNotLoaded = errors.New("eglgbm: EGL/GBM libraries not loaded; call eglgbm.Init() first")

// ErrLibraryNotFound is returned when a required library cannot be found.
var ErrLibraryNotFound = errors.New("eglgbm: library not found")

// Library handles
var (
	libEGL uintptr
	libGBM uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

var eglGetProcAddress func(name string) uintptr

// IsLoaded returns true if the EGL and GBM libraries have been loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libEGL and libgbm and resolves the proc-address entry point.
// It is safe to call multiple times; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error

	libEGL, err = loadLibrary("EGL", []int{1})
	if err != nil {
		return fmt.Errorf("loading libEGL: %w", err)
	}

	libGBM, err = loadLibrary("gbm", []int{1})
	if err != nil {
		return fmt.Errorf("loading libgbm: %w", err)
	}

	purego.RegisterLibFunc(&eglGetProcAddress, libEGL, "eglGetProcAddress")

	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}

		// Unversioned name (dev symlink)
		libName := platform.FormatLibraryName(name, -1)
		lib, err := tryOpen(filepath.Join(searchPath, libName))
		if err == nil {
			return lib, nil
		}
	}

	// Let the dynamic loader search for it.
	for _, ver := range versions {
		lib, err := tryOpen(platform.FormatLibraryName(name, ver))
		if err == nil {
			return lib, nil
		}
	}
	lib, err := tryOpen(platform.FormatLibraryName(name, -1))
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: vendor EGL drivers load further client modules
// that resolve symbols against the already-loaded libEGL.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// LibrarySearchPaths returns the library search paths for this system.
func LibrarySearchPaths() []string {
	var paths []string

	if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
		paths = append(paths, filepath.SplitList(ldPath)...)
	}
	paths = append(paths,
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/usr/local/lib",
		"/usr/lib",
		"/lib/x86_64-linux-gnu",
		"/lib",
	)

	return paths
}

// ProcAddress resolves an EGL extension entry point. Returns 0 if the
// libraries are not loaded or the driver does not export the function.
func ProcAddress(name string) uintptr {
	if !loaded || eglGetProcAddress == nil {
		return 0
	}
	return eglGetProcAddress(name)
}

// LibEGL returns the libEGL handle.
func LibEGL() uintptr {
	return libEGL
}

// LibGBM returns the libgbm handle.
func LibGBM() uintptr {
	return libGBM
}
