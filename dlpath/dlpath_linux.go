package dlpath

import (
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/phonemix/espeak-runtime/errors"
)

// RTLD_DI_LINKMAP request for dlinfo(3): obtain the link_map of the handle.
const rtldDILinkMap = 2

// linkMap mirrors the public head of glibc's struct link_map. Only l_name is
// read; the pointers are kept as uintptr because they reference loader-owned
// memory the GC must never scan.
type linkMap struct {
	lAddr uintptr
	lName uintptr
	lLD   uintptr
	lNext uintptr
	lPrev uintptr
}

var (
	dlinfoOnce sync.Once
	dlinfoAddr uintptr
	dlinfoErr  error
)

// Resolve returns the absolute path of the file mapped for handle. The probe
// symbol is unused on Linux; dlinfo works on the handle directly.
func Resolve(handle uintptr, probeSymbol string) (string, error) {
	if handle == 0 {
		return "", errors.PathResolution("nil library handle", nil)
	}

	dlinfoOnce.Do(func() {
		dlinfoAddr, dlinfoErr = purego.Dlsym(purego.RTLD_DEFAULT, "dlinfo")
	})
	if dlinfoErr != nil {
		return "", errors.PathResolution("dlinfo is not available", dlinfoErr)
	}

	var lm uintptr
	rc, _, _ := purego.SyscallN(dlinfoAddr, handle, rtldDILinkMap, uintptr(unsafe.Pointer(&lm)))
	if rc != 0 || lm == 0 {
		return "", errors.PathResolution("dlinfo(RTLD_DI_LINKMAP) failed", nil)
	}

	name := cstring((*linkMap)(unsafe.Pointer(lm)).lName)
	if name == "" {
		// The main program and statically linked objects have no file name.
		return "", errors.PathResolution("loaded object has no file name", nil)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return "", errors.PathResolution("cannot make library path absolute", err)
	}
	return abs, nil
}
