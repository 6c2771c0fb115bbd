package dlpath

import (
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/phonemix/espeak-runtime/errors"
)

// dlInfo mirrors Dl_info from dlfcn.h. Pointers are kept as uintptr because
// they reference loader-owned memory the GC must never scan.
type dlInfo struct {
	fname uintptr
	fbase uintptr
	sname uintptr
	saddr uintptr
}

var (
	dladdrOnce sync.Once
	dladdrAddr uintptr
	dladdrErr  error
)

// Resolve returns the absolute path of the image mapped for handle. macOS has
// no dlinfo, so it looks up probeSymbol in the handle and asks dladdr which
// image that address belongs to.
func Resolve(handle uintptr, probeSymbol string) (string, error) {
	if handle == 0 {
		return "", errors.PathResolution("nil library handle", nil)
	}

	sym, err := purego.Dlsym(handle, probeSymbol)
	if err != nil || sym == 0 {
		return "", errors.PathResolution("probe symbol "+probeSymbol+" not found in handle", err)
	}

	dladdrOnce.Do(func() {
		dladdrAddr, dladdrErr = purego.Dlsym(purego.RTLD_DEFAULT, "dladdr")
	})
	if dladdrErr != nil {
		return "", errors.PathResolution("dladdr is not available", dladdrErr)
	}

	var info dlInfo
	rc, _, _ := purego.SyscallN(dladdrAddr, sym, uintptr(unsafe.Pointer(&info)))
	if rc == 0 {
		return "", errors.PathResolution("dladdr failed for probe symbol "+probeSymbol, nil)
	}

	name := cstring(info.fname)
	if name == "" {
		return "", errors.PathResolution("loaded image has no file name", nil)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return "", errors.PathResolution("cannot make library path absolute", err)
	}
	return abs, nil
}
