//go:build !windows

package engine

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// loadLibrary opens a shared library through the system dynamic loader.
// RTLD_LOCAL keeps the module's symbols out of the global namespace so that
// copies loaded by other instances can never interpose on each other.
func loadLibrary(name string) (uintptr, error) {
	handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return 0, err
	}
	if handle == 0 {
		return 0, fmt.Errorf("dlopen returned a nil handle for %s", name)
	}
	return handle, nil
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}

func getSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}
