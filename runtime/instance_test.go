package runtime

import (
	stderrors "errors"
	"testing"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/errors"
)

func openTestInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := New("")
	if err != nil {
		t.Skipf("espeak-ng shared library not available: %v", err)
	}
	t.Cleanup(func() { _ = inst.Close() })
	return inst
}

// Validation runs before anything crosses the FFI boundary, so these tests
// need no native library at all.
func TestValidation(t *testing.T) {
	inst := &Instance{}

	invalidInput := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindInvalidInput}
	invalidEnum := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindInvalidEnum}

	if err := inst.SetVoiceByName(""); !stderrors.Is(err, invalidInput) {
		t.Errorf("SetVoiceByName(\"\") = %v, want invalid_input", err)
	}
	if _, err := inst.TextToPhonemes("", espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII); !stderrors.Is(err, invalidInput) {
		t.Errorf("TextToPhonemes(\"\") = %v, want invalid_input", err)
	}
	if _, err := inst.TextToPhonemes("hi", espeakruntime.TextMode(42), espeakruntime.PhonemeModeASCII); !stderrors.Is(err, invalidEnum) {
		t.Errorf("TextToPhonemes bad mode = %v, want invalid_enum", err)
	}
	if err := inst.SetPhonemeTrace(espeakruntime.TraceMode(9), nil); !stderrors.Is(err, invalidEnum) {
		t.Errorf("SetPhonemeTrace bad mode = %v, want invalid_enum", err)
	}
	if err := inst.Synthesize("", espeakruntime.SynthCharsUTF8); !stderrors.Is(err, invalidInput) {
		t.Errorf("Synthesize(\"\") = %v, want invalid_input", err)
	}
	if err := inst.Synthesize("hi", espeakruntime.SynthFlags(0xf)); !stderrors.Is(err, invalidEnum) {
		t.Errorf("Synthesize bad encoding bits = %v, want invalid_enum", err)
	}
}

func TestZeroInstance_NotInitialized(t *testing.T) {
	inst := &Instance{}
	target := &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindNotInitialized}

	if _, err := inst.Info(); !stderrors.Is(err, target) {
		t.Errorf("Info = %v, want not_initialized", err)
	}
	if _, err := inst.Voices(nil); !stderrors.Is(err, target) {
		t.Errorf("Voices = %v, want not_initialized", err)
	}
	if _, err := inst.CurrentVoice(); !stderrors.Is(err, target) {
		t.Errorf("CurrentVoice = %v, want not_initialized", err)
	}
	if err := inst.Close(); err != nil {
		t.Errorf("Close on zero instance = %v, want nil", err)
	}
	if inst.LibraryPath() != "" {
		t.Error("LibraryPath on zero instance should be empty")
	}
}

func TestInstance_Info(t *testing.T) {
	inst := openTestInstance(t)

	info, err := inst.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Version == "" {
		t.Error("empty version")
	}
}

func TestInstance_TextToPhonemes_MultiClause(t *testing.T) {
	inst := openTestInstance(t)
	if err := inst.SetVoiceByName("en"); err != nil {
		t.Fatalf("SetVoiceByName: %v", err)
	}

	// Multiple sentences force the clause loop through several native calls.
	phonemes, err := inst.TextToPhonemes(
		"hello world. this is a test. goodbye.",
		espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII)
	if err != nil {
		t.Fatalf("TextToPhonemes: %v", err)
	}
	if phonemes == "" {
		t.Fatal("empty phoneme output")
	}

	single, err := inst.TextToPhonemes("hello world.",
		espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeASCII)
	if err != nil {
		t.Fatalf("TextToPhonemes: %v", err)
	}
	if len(phonemes) <= len(single) {
		t.Errorf("later clauses missing: multi %q vs single %q", phonemes, single)
	}
}

func TestInstance_VoiceFilter(t *testing.T) {
	inst := openTestInstance(t)

	all, err := inst.Voices(nil)
	if err != nil {
		t.Fatalf("Voices(nil): %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no voices installed")
	}
}

func TestInstance_LibraryPath(t *testing.T) {
	inst := openTestInstance(t)

	if inst.LibraryPath() == "" {
		t.Error("empty library path after successful construction")
	}
}
