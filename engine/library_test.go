package engine

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unsafe"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/errors"
)

// openTestLibrary skips the test when espeak-ng is not installed, so the
// native-dependent suite degrades gracefully on machines without it.
func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open("")
	if err != nil {
		t.Skipf("espeak-ng shared library not available: %v", err)
	}
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func tempDirCount(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "espeak-runtime-*"))
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	return len(matches)
}

func TestOpen_NonexistentLibrary(t *testing.T) {
	before := tempDirCount(t)

	_, err := Open("libdefinitely-not-a-real-library.so.99")
	if err == nil {
		t.Fatal("expected load error for nonexistent library")
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if e.Phase != errors.PhaseLoad || e.Kind != errors.KindLoadFailed {
		t.Errorf("error = [%s] %s, want [load] load_failed", e.Phase, e.Kind)
	}

	// A failed construction must not leave its temp directory behind.
	if after := tempDirCount(t); after != before {
		t.Errorf("temp directories leaked: %d before, %d after", before, after)
	}
}

func TestOpen_LibraryPathIsOriginal(t *testing.T) {
	lib := openTestLibrary(t)

	path := lib.LibraryPath()
	if !filepath.IsAbs(path) {
		t.Errorf("library path %q is not absolute", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("library path %q does not exist: %v", path, err)
	}
	if strings.HasPrefix(path, lib.TempDir()) {
		t.Errorf("library path %q points into the private copy directory", path)
	}
}

func TestOpen_PrivateCopy(t *testing.T) {
	lib := openTestLibrary(t)

	copyPath := filepath.Join(lib.TempDir(), filepath.Base(lib.LibraryPath()))
	info, err := os.Stat(copyPath)
	if err != nil {
		t.Fatalf("private copy missing: %v", err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("private copy is not a regular file: %v", info.Mode())
	}
}

func TestIsolation_TwoInstances(t *testing.T) {
	a := openTestLibrary(t)
	b := openTestLibrary(t)

	if a.TempDir() == b.TempDir() {
		t.Fatalf("instances share temp directory %q", a.TempDir())
	}

	if err := a.SetVoiceByName("en"); err != nil {
		t.Fatalf("SetVoiceByName on a: %v", err)
	}
	if err := b.SetVoiceByName("en"); err != nil {
		t.Fatalf("SetVoiceByName on b: %v", err)
	}
	bBefore, err := b.CurrentVoice()
	if err != nil {
		t.Fatalf("CurrentVoice on b: %v", err)
	}

	// Changing the voice on a must not leak into b's module globals.
	voices, err := a.ListVoices(nil)
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	for _, v := range voices {
		if v.Name != bBefore.Name {
			if err := a.SetVoiceByName(v.Name); err == nil {
				break
			}
		}
	}

	bAfter, err := b.CurrentVoice()
	if err != nil {
		t.Fatalf("CurrentVoice on b after mutating a: %v", err)
	}
	if bAfter.Name != bBefore.Name {
		t.Errorf("voice on b changed from %q to %q when a was mutated", bBefore.Name, bAfter.Name)
	}
}

func TestClose_RemovesTempDir(t *testing.T) {
	lib := openTestLibrary(t)
	dir := lib.TempDir()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("temp dir missing while open: %v", err)
	}
	if err := lib.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("temp dir %q still present after Close (err=%v)", dir, err)
	}

	// Idempotent.
	if err := lib.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}

// openUnmanagedLibrary is openTestLibrary without the t.Cleanup Close, for
// tests that need the instance to become unreachable while still open.
func openUnmanagedLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open("")
	if err != nil {
		t.Skipf("espeak-ng shared library not available: %v", err)
	}
	return lib
}

func TestUnreachableLibrary_TempDirRemoved(t *testing.T) {
	lib := openUnmanagedLibrary(t)
	dir := lib.TempDir()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("temp dir missing while open: %v", err)
	}

	// Drop the only reference without calling Close. The registered cleanup
	// must terminate the instance and remove its directory on its own.
	lib = nil
	_ = lib

	deadline := time.Now().Add(10 * time.Second)
	for {
		runtime.GC()
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("temp dir %q still present after the instance became unreachable", dir)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClose_NeverOpened(t *testing.T) {
	var lib Library
	if err := lib.Close(); err != nil {
		t.Fatalf("Close on never-opened Library: %v", err)
	}
	// Idempotent, and subsequent calls are rejected cleanly.
	if err := lib.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	target := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindNotInitialized}
	if _, _, err := lib.Info(); !stderrors.Is(err, target) {
		t.Errorf("Info on never-opened Library = %v, want not_initialized", err)
	}
}

func TestCallAfterClose(t *testing.T) {
	lib := openTestLibrary(t)
	if err := lib.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	target := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindNotInitialized}

	if _, _, err := lib.Info(); !stderrors.Is(err, target) {
		t.Errorf("Info after close = %v, want not_initialized", err)
	}
	if err := lib.SetVoiceByName("en"); !stderrors.Is(err, target) {
		t.Errorf("SetVoiceByName after close = %v, want not_initialized", err)
	}
	if _, err := lib.ListVoices(nil); !stderrors.Is(err, target) {
		t.Errorf("ListVoices after close = %v, want not_initialized", err)
	}
	if _, _, err := lib.TextToPhonemes([]byte("hi"), espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII); !stderrors.Is(err, target) {
		t.Errorf("TextToPhonemes after close = %v, want not_initialized", err)
	}
	if err := lib.Synthesize([]byte("hi"), espeakruntime.SynthCharsUTF8); !stderrors.Is(err, target) {
		t.Errorf("Synthesize after close = %v, want not_initialized", err)
	}
	if !lib.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestInfo(t *testing.T) {
	lib := openTestLibrary(t)

	version, dataPath, err := lib.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if version == "" {
		t.Error("empty version string")
	}
	if dataPath == "" {
		t.Error("empty data path")
	}
}

func TestSetVoiceByName_Language(t *testing.T) {
	lib := openTestLibrary(t)

	if err := lib.SetVoiceByName("en"); err != nil {
		t.Fatalf("SetVoiceByName: %v", err)
	}
	v, err := lib.CurrentVoice()
	if err != nil {
		t.Fatalf("CurrentVoice: %v", err)
	}
	if lang := v.Language(); !strings.HasPrefix(lang, "en") {
		t.Errorf("current voice language = %q, want en*", lang)
	}
}

func TestSetVoiceByName_Unknown(t *testing.T) {
	lib := openTestLibrary(t)

	err := lib.SetVoiceByName("no-such-voice-xyzzy")
	if err == nil {
		t.Fatal("expected error for unknown voice")
	}
	target := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindNativeStatus}
	if !stderrors.Is(err, target) {
		t.Errorf("error = %v, want native_status", err)
	}
}

func TestListVoices(t *testing.T) {
	lib := openTestLibrary(t)

	voices, err := lib.ListVoices(nil)
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("no voices returned")
	}
	for _, v := range voices {
		if v.Name == "" {
			t.Errorf("voice with empty name: %+v", v)
		}
	}
}

func TestTextToPhonemes_NoBufferAliasing(t *testing.T) {
	lib := openTestLibrary(t)
	if err := lib.SetVoiceByName("en"); err != nil {
		t.Fatalf("SetVoiceByName: %v", err)
	}

	first, _, err := lib.TextToPhonemes([]byte("hello"), espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII)
	if err != nil {
		t.Fatalf("TextToPhonemes: %v", err)
	}
	second, _, err := lib.TextToPhonemes([]byte("completely different words"), espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII)
	if err != nil {
		t.Fatalf("TextToPhonemes: %v", err)
	}

	if first == "" || second == "" {
		t.Fatalf("empty phoneme output: %q / %q", first, second)
	}
	if first == second {
		t.Errorf("different inputs produced identical phonemes %q; borrowed buffer not copied out", first)
	}
}

func TestCopyFile_MaterializesSymlinkTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.so")
	content := []byte("not actually a library")
	if err := os.WriteFile(target, content, 0o644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "link.so")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported here: %v", err)
	}

	dst := filepath.Join(dir, "copy.so")
	if err := copyFile(link, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}

	info, err := os.Lstat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Error("copy is a symlink; want a standalone regular file")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("copied content = %q, want %q", got, content)
	}
}

func TestCopyFile_ExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dst); err == nil {
		t.Error("copyFile overwrote an existing file; the private directory must be fresh")
	}
}

func TestCstring(t *testing.T) {
	buf := []byte{'a', 'b', 'c', 0, 'x'}
	got := cstring(uintptr(unsafe.Pointer(&buf[0])))
	if got != "abc" {
		t.Errorf("cstring = %q, want %q", got, "abc")
	}
	if cstring(0) != "" {
		t.Error("cstring(0) should be empty")
	}
}
