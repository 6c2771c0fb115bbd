package dlpath

import (
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/phonemix/espeak-runtime/errors"
)

// Resolve returns the absolute path of the module behind handle. The probe
// symbol is unused on Windows; the loader exposes the file name directly.
func Resolve(handle uintptr, probeSymbol string) (string, error) {
	if handle == 0 {
		return "", errors.PathResolution("nil library handle", nil)
	}

	buf := make([]uint16, 260)
	for {
		n, err := windows.GetModuleFileName(windows.Handle(handle), &buf[0], uint32(len(buf)))
		if err != nil {
			return "", errors.PathResolution("GetModuleFileName failed", err)
		}
		if int(n) < len(buf) {
			abs, err := filepath.Abs(windows.UTF16ToString(buf[:n]))
			if err != nil {
				return "", errors.PathResolution("cannot make library path absolute", err)
			}
			return abs, nil
		}
		// Truncated: the returned length filled the buffer.
		buf = make([]uint16, len(buf)*2)
	}
}
