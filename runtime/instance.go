package runtime

import (
	"os"
	"strings"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/engine"
	"github.com/phonemix/espeak-runtime/errors"
	"github.com/phonemix/espeak-runtime/voice"
)

// Info describes the loaded library.
type Info struct {
	Version  string
	DataPath string
}

// Instance is one isolated espeak-ng instance.
type Instance struct {
	lib *engine.Library
}

// New constructs an instance backed by a private copy of the named shared
// library. An empty name loads the platform default. Construction failures
// identify the failing step (resolution, load, or initialization) and leave
// no temp directory behind.
func New(libraryName string) (*Instance, error) {
	lib, err := engine.Open(libraryName)
	if err != nil {
		return nil, err
	}
	return &Instance{lib: lib}, nil
}

// Close releases the native module and the private temp directory. Idempotent.
func (i *Instance) Close() error {
	if i.lib == nil {
		return nil
	}
	return i.lib.Close()
}

// LibraryPath returns the resolved path of the originally named library,
// not the private copy's path.
func (i *Instance) LibraryPath() string {
	if i.lib == nil {
		return ""
	}
	return i.lib.LibraryPath()
}

// Info returns the native library's version and voice data path.
func (i *Instance) Info() (Info, error) {
	if i.lib == nil {
		return Info{}, errors.NotInitialized("instance")
	}
	version, dataPath, err := i.lib.Info()
	if err != nil {
		return Info{}, err
	}
	return Info{Version: version, DataPath: dataPath}, nil
}

// Voices lists installed voices matching spec; a nil spec lists all of them.
func (i *Instance) Voices(spec *voice.Spec) ([]voice.Voice, error) {
	if i.lib == nil {
		return nil, errors.NotInitialized("instance")
	}
	return i.lib.ListVoices(spec)
}

// SetVoiceByName selects the active voice by name. The native match is
// case-insensitive on the name; returned descriptor fields keep the
// library's own casing.
func (i *Instance) SetVoiceByName(name string) error {
	if name == "" {
		return errors.InvalidInput("voice name must not be empty")
	}
	if i.lib == nil {
		return errors.NotInitialized("instance")
	}
	return i.lib.SetVoiceByName(name)
}

// CurrentVoice returns the active voice descriptor.
func (i *Instance) CurrentVoice() (voice.Voice, error) {
	if i.lib == nil {
		return voice.Voice{}, errors.NotInitialized("instance")
	}
	return i.lib.CurrentVoice()
}

// TextToPhonemes converts text to phonemes with the active voice. The native
// library translates one clause per call; this method loops over the clause
// stream and joins the results, so the returned string covers all of text.
func (i *Instance) TextToPhonemes(text string, tm espeakruntime.TextMode, pm espeakruntime.PhonemeMode) (string, error) {
	if text == "" {
		return "", errors.InvalidInput("text must not be empty")
	}
	if !tm.Valid() {
		return "", errors.InvalidEnum("text mode", int64(tm))
	}
	if i.lib == nil {
		return "", errors.NotInitialized("instance")
	}

	var parts []string
	rest := []byte(text)
	for len(rest) > 0 {
		phonemes, next, err := i.lib.TextToPhonemes(rest, tm, pm)
		if err != nil {
			return "", err
		}
		if phonemes != "" {
			parts = append(parts, phonemes)
		}
		// The clause pointer must strictly advance; anything else means the
		// stream is exhausted.
		if len(next) == 0 || len(next) >= len(rest) {
			break
		}
		rest = next
	}
	return strings.Join(parts, " "), nil
}

// SetPhonemeTrace directs phoneme diagnostics to sink. A nil sink restores
// the library default; TraceOff disables tracing.
func (i *Instance) SetPhonemeTrace(mode espeakruntime.TraceMode, sink *os.File) error {
	if !mode.Valid() {
		return errors.InvalidEnum("trace mode", int64(mode))
	}
	if i.lib == nil {
		return errors.NotInitialized("instance")
	}
	return i.lib.SetPhonemeTrace(mode, sink)
}

// Synthesize speaks text synchronously, blocking until the native library
// returns control. The low flag bits carry the text encoding.
func (i *Instance) Synthesize(text string, flags espeakruntime.SynthFlags) error {
	if text == "" {
		return errors.InvalidInput("text must not be empty")
	}
	if enc := flags & 0xf; enc > espeakruntime.SynthCharsUTF16 {
		return errors.InvalidEnum("synthesis text encoding", int64(enc))
	}
	if i.lib == nil {
		return errors.NotInitialized("instance")
	}
	return i.lib.Synthesize([]byte(text), flags)
}
