package engine

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/dlpath"
	"github.com/phonemix/espeak-runtime/errors"
	"github.com/phonemix/espeak-runtime/voice"
)

// probeSymbol verifies a load and anchors path resolution on platforms that
// locate a handle through one of its symbol addresses.
const probeSymbol = "espeak_Initialize"

// espeak_POSITION_TYPE: positions in espeak_Synth are measured in characters.
const posCharacter = 1

// procs holds the resolved entry points of one loaded copy. Fixed-signature
// calls go through RegisterLibFunc; entry points returning borrowed native
// pointers are kept as raw addresses and dispatched with SyscallN, since
// their results need manual decoding before the next call can reuse them.
type procs struct {
	initialize      func(output, buflength int32, path uintptr, options int32) int32
	terminate       func() int32
	setVoiceByName  func(name string) int32
	setPhonemeTrace func(mode int32, stream uintptr)
	synth           func(text, size uintptr, position uint32, positionType int32,
		endPosition, flags uint32, uniqueIdentifier, userData uintptr) int32

	info           uintptr
	listVoices     uintptr
	currentVoice   uintptr
	textToPhonemes uintptr
}

var requiredSymbols = []string{
	"espeak_Initialize",
	"espeak_Terminate",
	"espeak_Info",
	"espeak_ListVoices",
	"espeak_SetVoiceByName",
	"espeak_GetCurrentVoice",
	"espeak_TextToPhonemes",
	"espeak_SetPhonemeTrace",
	"espeak_Synth",
}

// Library is one isolated, initialized copy of the espeak-ng shared library.
//
// A Library is NOT safe for concurrent use: every method enters native code
// that is not re-entrant. Confine it to one goroutine or guard it externally.
// Distinct Libraries are fully independent and may run concurrently.
type Library struct {
	mu     sync.Mutex
	closed bool

	handle      uintptr
	procs       procs
	libraryPath string // resolved path of the installed library, pre-copy
	tempDir     string

	// trace is the FILE* of the active phoneme trace sink. It lives in its
	// own allocation so the cleanup can reach it without keeping the
	// Library itself alive.
	trace   *uintptr
	cleanup runtime.Cleanup
}

// Open loads, copies and initializes an isolated instance of the named
// library. An empty name loads the platform default. Any failure releases
// everything allocated up to that point and returns a typed error.
func Open(name string) (*Library, error) {
	if name == "" {
		name = espeakruntime.DefaultLibraryName
	}

	tempDir, err := os.MkdirTemp("", "espeak-runtime-")
	if err != nil {
		return nil, errors.Filesystem(errors.PhaseLoad, "create private temp directory", err)
	}

	lib, err := open(name, tempDir)
	if err != nil {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			Logger().Warn("failed to remove temp directory after aborted construction",
				zap.String("dir", tempDir), zap.Error(rmErr))
		}
		return nil, err
	}
	return lib, nil
}

func open(name, tempDir string) (*Library, error) {
	// Load the installed library only to learn where it lives, then release
	// it immediately: the loader dedupes handles by path, so the original
	// must not stay mapped when the private copy is loaded.
	transient, err := loadLibrary(name)
	if err != nil {
		return nil, errors.LoadFailed(name, err)
	}
	origPath, resolveErr := dlpath.Resolve(transient, probeSymbol)
	if err := closeLibrary(transient); err != nil {
		Logger().Warn("failed to release transient library handle",
			zap.String("library", name), zap.Error(err))
	}
	if resolveErr != nil {
		return nil, resolveErr
	}

	copyPath := filepath.Join(tempDir, filepath.Base(origPath))
	if err := copyFile(origPath, copyPath); err != nil {
		return nil, errors.Filesystem(errors.PhaseLoad, "copy library into private directory", err)
	}

	handle, err := loadLibrary(copyPath)
	if err != nil {
		return nil, errors.LoadFailed(copyPath, err)
	}

	lib := &Library{
		handle:      handle,
		libraryPath: origPath,
		tempDir:     tempDir,
		trace:       new(uintptr),
	}
	if err := lib.resolveSymbols(); err != nil {
		_ = closeLibrary(handle)
		return nil, err
	}

	// Zero buffer length, no output path, no option bits: synchronous
	// synthesis with the library's defaults. Returns the sample rate on
	// success, a non-positive status on failure.
	if rate := lib.procs.initialize(int32(espeakruntime.AudioOutputSynchronous), 0, 0, 0); rate <= 0 {
		_ = closeLibrary(handle)
		return nil, errors.InitFailed(copyPath, int64(rate))
	}

	// The cleanup argument carries copies of everything teardown needs, so
	// dropping the last reference to lib still terminates the native module
	// and removes the on-disk copy without resurrecting lib.
	lib.cleanup = runtime.AddCleanup(lib, releaseResources, teardown{
		terminate: lib.procs.terminate,
		handle:    handle,
		tempDir:   tempDir,
		trace:     lib.trace,
	})

	Logger().Debug("library instance initialized",
		zap.String("library", origPath), zap.String("copy", copyPath))
	return lib, nil
}

// teardown carries everything needed to release a Library without referencing
// the Library itself.
type teardown struct {
	terminate func() int32
	handle    uintptr
	tempDir   string
	trace     *uintptr
}

// release is the single teardown path, shared by Close and the runtime
// cleanup. Termination failures are logged and never raised: this path can
// run during process shutdown, where surfacing them is unsafe. The temp
// directory is removed unconditionally. Resource release failures are
// aggregated and returned.
func release(t teardown) error {
	if t.terminate != nil {
		if st := t.terminate(); st != 0 {
			Logger().Warn("espeak_Terminate reported failure", zap.Int64("status", int64(st)))
		}
	}
	var errs error
	if t.trace != nil && *t.trace != 0 {
		if err := closeStream(*t.trace); err != nil {
			errs = multierr.Append(errs, err)
		}
		*t.trace = 0
	}
	if err := closeLibrary(t.handle); err != nil {
		errs = multierr.Append(errs, errors.New(errors.PhaseTerminate, errors.KindLoadFailed).
			Library(t.tempDir).
			Detail("unload library copy").
			Cause(err).
			Build())
	}
	if err := os.RemoveAll(t.tempDir); err != nil {
		errs = multierr.Append(errs, errors.Filesystem(errors.PhaseTerminate, "remove temp directory", err))
	}
	return errs
}

// releaseResources is the runtime cleanup entry point for instances that
// became unreachable without an explicit Close. Errors have nowhere to go
// here, so they are logged.
func releaseResources(t teardown) {
	if err := release(t); err != nil {
		Logger().Warn("instance teardown reported errors", zap.Error(err))
	}
}

// Close terminates the native module and removes its private temp directory.
// It is idempotent, and a no-op on a Library that was never opened. Native
// terminate failures are logged, not returned; resource release failures are
// aggregated and returned.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.handle == 0 {
		return nil
	}
	l.cleanup.Stop()

	err := release(teardown{
		terminate: l.procs.terminate,
		handle:    l.handle,
		tempDir:   l.tempDir,
		trace:     l.trace,
	})
	l.handle = 0
	return err
}

// LibraryPath returns the resolved absolute path of the installed library the
// instance was constructed from. The private copy is an implementation detail
// and is not exposed.
func (l *Library) LibraryPath() string {
	return l.libraryPath
}

// TempDir returns the private directory holding this instance's copy.
func (l *Library) TempDir() string {
	return l.tempDir
}

// Closed reports whether the instance has been torn down.
func (l *Library) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Library) resolveSymbols() error {
	// Look every entry point up before registering anything: RegisterLibFunc
	// panics on a missing symbol, a lookup failure here is a typed error.
	addrs := make(map[string]uintptr, len(requiredSymbols))
	for _, sym := range requiredSymbols {
		addr, err := getSymbol(l.handle, sym)
		if err != nil || addr == 0 {
			return errors.New(errors.PhaseLoad, errors.KindLoadFailed).
				Symbol(sym).
				Detail("entry point not found in library").
				Cause(err).
				Build()
		}
		addrs[sym] = addr
	}

	purego.RegisterLibFunc(&l.procs.initialize, l.handle, "espeak_Initialize")
	purego.RegisterLibFunc(&l.procs.terminate, l.handle, "espeak_Terminate")
	purego.RegisterLibFunc(&l.procs.setVoiceByName, l.handle, "espeak_SetVoiceByName")
	purego.RegisterLibFunc(&l.procs.setPhonemeTrace, l.handle, "espeak_SetPhonemeTrace")
	purego.RegisterLibFunc(&l.procs.synth, l.handle, "espeak_Synth")

	l.procs.info = addrs["espeak_Info"]
	l.procs.listVoices = addrs["espeak_ListVoices"]
	l.procs.currentVoice = addrs["espeak_GetCurrentVoice"]
	l.procs.textToPhonemes = addrs["espeak_TextToPhonemes"]
	return nil
}

// guard rejects calls on a closed or torn-down instance.
func (l *Library) guard() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.handle == 0 {
		return errors.NotInitialized("library instance")
	}
	return nil
}

// Info returns the library version string and its voice data path.
func (l *Library) Info() (version, dataPath string, err error) {
	if err := l.guard(); err != nil {
		return "", "", err
	}
	var data uintptr
	r1, _, _ := purego.SyscallN(l.procs.info, uintptr(unsafe.Pointer(&data)))
	return cstring(r1), cstring(data), nil
}

// ListVoices returns owned copies of the descriptors matching spec. A nil
// spec matches every installed voice.
func (l *Library) ListVoices(spec *voice.Spec) ([]voice.Voice, error) {
	if err := l.guard(); err != nil {
		return nil, err
	}

	var filterPtr uintptr
	if spec != nil {
		f := voice.NewFilter(*spec)
		defer f.Free()
		filterPtr = uintptr(f.Ptr())
	}

	r1, _, _ := purego.SyscallN(l.procs.listVoices, filterPtr)
	if r1 == 0 {
		return nil, errors.NilPointer("espeak_ListVoices")
	}
	return voice.DecodeList(unsafe.Pointer(r1)), nil
}

// SetVoiceByName selects the active voice. Name matching is performed by the
// native library and is case-insensitive.
func (l *Library) SetVoiceByName(name string) error {
	if err := l.guard(); err != nil {
		return err
	}
	if st := l.procs.setVoiceByName(name); st != 0 {
		return errors.NativeStatus(errors.PhaseCall, "espeak_SetVoiceByName", int64(st))
	}
	return nil
}

// CurrentVoice returns an owned copy of the active voice descriptor.
func (l *Library) CurrentVoice() (voice.Voice, error) {
	if err := l.guard(); err != nil {
		return voice.Voice{}, err
	}
	r1, _, _ := purego.SyscallN(l.procs.currentVoice)
	if r1 == 0 {
		return voice.Voice{}, errors.NilPointer("espeak_GetCurrentVoice")
	}
	return voice.Decode(unsafe.Pointer(r1)), nil
}

// TextToPhonemes translates the leading clause of text and returns its
// phonemes plus the untranslated remainder. The native library advances its
// text pointer one clause per call; callers loop until remaining is empty.
// The returned phoneme string is copied out of the library's internal buffer
// before this method returns, so it survives subsequent calls.
func (l *Library) TextToPhonemes(text []byte, tm espeakruntime.TextMode, pm espeakruntime.PhonemeMode) (phonemes string, remaining []byte, err error) {
	if err := l.guard(); err != nil {
		return "", nil, err
	}

	buf := make([]byte, len(text)+1)
	copy(buf, text)
	var pin runtime.Pinner
	pin.Pin(&buf[0])
	defer pin.Unpin()

	start := uintptr(unsafe.Pointer(&buf[0]))
	textPtr := start
	r1, _, _ := purego.SyscallN(l.procs.textToPhonemes,
		uintptr(unsafe.Pointer(&textPtr)), uintptr(tm), uintptr(pm))

	phonemes = cstring(r1)

	// The library sets the pointer to NULL once the whole text is consumed,
	// otherwise it points at the next clause inside our buffer.
	if textPtr != 0 {
		off := textPtr - start
		if off < uintptr(len(buf)-1) {
			remaining = buf[off : len(buf)-1]
		}
	}
	return phonemes, remaining, nil
}

// SetPhonemeTrace directs phoneme diagnostics for this instance to sink.
// A nil sink lets the library fall back to its default (stderr); TraceOff
// disables tracing. Replacing the sink closes the previous one.
func (l *Library) SetPhonemeTrace(mode espeakruntime.TraceMode, sink *os.File) error {
	if err := l.guard(); err != nil {
		return err
	}

	var stream uintptr
	if sink != nil {
		s, err := openStream(sink)
		if err != nil {
			return err
		}
		stream = s
	}

	l.procs.setPhonemeTrace(int32(mode), stream)

	l.mu.Lock()
	prev := *l.trace
	*l.trace = stream
	l.mu.Unlock()
	if prev != 0 {
		if err := closeStream(prev); err != nil {
			Logger().Warn("failed to close replaced trace sink", zap.Error(err))
		}
	}
	return nil
}

// Synthesize speaks text with the initialized synchronous output mode,
// blocking until the native library returns control. Progress and audio
// delivery happen through the library's own side channels.
func (l *Library) Synthesize(text []byte, flags espeakruntime.SynthFlags) error {
	if err := l.guard(); err != nil {
		return err
	}

	buf := make([]byte, len(text)+1)
	copy(buf, text)
	var pin runtime.Pinner
	pin.Pin(&buf[0])
	defer pin.Unpin()

	st := l.procs.synth(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)),
		0, posCharacter, 0, uint32(flags), 0, 0)
	if st != 0 {
		return errors.NativeStatus(errors.PhaseCall, "espeak_Synth", int64(st))
	}
	return nil
}

// copyFile materializes the bytes of src at dst. src may be (and usually is)
// a symlink chain ending at the real library file; opening it always reads
// the final target's contents, so the copy is a standalone regular file,
// never a recreated link.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// cstring copies a NUL-terminated C string out of native memory.
func cstring(p uintptr) string {
	if p == 0 {
		return ""
	}
	var b []byte
	for {
		c := *(*byte)(unsafe.Pointer(p))
		if c == 0 {
			break
		}
		b = append(b, c)
		p++
	}
	return string(b)
}
