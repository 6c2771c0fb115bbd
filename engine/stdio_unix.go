//go:build !windows

package engine

import (
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	"github.com/phonemix/espeak-runtime/errors"
)

var (
	stdioOnce sync.Once
	fdopenFn  func(fd int32, mode string) uintptr
	fcloseFn  func(stream uintptr) int32
)

// openStream wraps a duplicate of f's descriptor in a C stdio FILE so the
// native library can write diagnostics to it. The descriptor is duplicated so
// the FILE's lifetime is independent of f; closeStream releases both.
func openStream(f *os.File) (uintptr, error) {
	stdioOnce.Do(func() {
		purego.RegisterLibFunc(&fdopenFn, purego.RTLD_DEFAULT, "fdopen")
		purego.RegisterLibFunc(&fcloseFn, purego.RTLD_DEFAULT, "fclose")
	})

	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return 0, errors.Filesystem(errors.PhaseCall, "duplicate trace sink descriptor", err)
	}

	stream := fdopenFn(int32(fd), "w")
	if stream == 0 {
		unix.Close(fd)
		return 0, errors.New(errors.PhaseCall, errors.KindFilesystem).
			Detail("fdopen failed for trace sink").
			Build()
	}
	return stream, nil
}

// closeStream flushes and closes a FILE produced by openStream.
func closeStream(stream uintptr) error {
	if stream == 0 {
		return nil
	}
	if st := fcloseFn(stream); st != 0 {
		return errors.NativeStatus(errors.PhaseTerminate, "fclose", int64(st))
	}
	return nil
}
