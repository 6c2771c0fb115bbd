package engine

import (
	"os"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"

	"github.com/phonemix/espeak-runtime/errors"
)

var (
	stdioOnce     sync.Once
	stdioErr      error
	openOsfhandle func(h uintptr, flags int32) int32
	fdopenFn      func(fd int32, mode string) uintptr
	fcloseFn      func(stream uintptr) int32
)

func loadStdio() {
	crt, err := windows.LoadLibrary("ucrtbase.dll")
	if err != nil {
		stdioErr = errors.LoadFailed("ucrtbase.dll", err)
		return
	}
	purego.RegisterLibFunc(&openOsfhandle, uintptr(crt), "_open_osfhandle")
	purego.RegisterLibFunc(&fdopenFn, uintptr(crt), "_fdopen")
	purego.RegisterLibFunc(&fcloseFn, uintptr(crt), "fclose")
}

// openStream wraps a duplicate of f's OS handle in a CRT FILE so the native
// library can write diagnostics to it. The handle is duplicated so the FILE's
// lifetime is independent of f; closeStream releases both.
func openStream(f *os.File) (uintptr, error) {
	stdioOnce.Do(loadStdio)
	if stdioErr != nil {
		return 0, stdioErr
	}

	proc := windows.CurrentProcess()
	var dup windows.Handle
	err := windows.DuplicateHandle(proc, windows.Handle(f.Fd()), proc, &dup,
		0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return 0, errors.Filesystem(errors.PhaseCall, "duplicate trace sink handle", err)
	}

	fd := openOsfhandle(uintptr(dup), 0)
	if fd < 0 {
		windows.CloseHandle(dup)
		return 0, errors.New(errors.PhaseCall, errors.KindFilesystem).
			Detail("_open_osfhandle failed for trace sink").
			Build()
	}

	stream := fdopenFn(fd, "w")
	if stream == 0 {
		windows.CloseHandle(dup)
		return 0, errors.New(errors.PhaseCall, errors.KindFilesystem).
			Detail("_fdopen failed for trace sink").
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
