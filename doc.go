// Package espeakruntime provides a multi-instance-safe Go binding to the
// espeak-ng shared library.
//
// espeak-ng was designed as a process-wide singleton: its state (current
// voice, synthesis parameters, internal buffers) lives in globals inside the
// loaded module, and the API is neither re-entrant nor isolated across
// callers. This library works around that by giving every instance its own
// private copy of the shared library on disk and loading that copy as an
// independent module, so concurrent instances never collide on native state.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	espeak-runtime/      Root package with shared enums and mode flags
//	├── runtime/         High-level API: validated calls over one instance
//	├── engine/          Low-level loader: temp copy, dlopen, init, teardown
//	├── dlpath/          Platform-specific loaded-library path resolution
//	├── voice/           espeak_VOICE ABI layout and borrowed-pointer decoding
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Create an instance and convert text to phonemes:
//
//	inst, err := runtime.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close()
//
//	if err := inst.SetVoiceByName("en"); err != nil {
//	    log.Fatal(err)
//	}
//	phonemes, err := inst.TextToPhonemes("hello world",
//	    espeakruntime.TextModeUTF8, espeakruntime.PhonemeModeIPA)
//
// # Isolation Model
//
// Each runtime.Instance owns one loaded copy of the library and one private
// temporary directory holding that copy. Loading the same file path twice
// returns the same module on every platform dynamic loader, so the on-disk
// copy is what makes a second, genuinely independent instance possible.
// Setting a voice on one instance never affects another.
//
// # Thread Safety
//
// Instances may be used concurrently with each other, but a single instance
// is NOT safe for concurrent use: every call enters non-re-entrant native
// code. Confine each instance to one goroutine or guard it with a mutex.
//
// # Memory Model
//
// Pointers returned by the native library (voice descriptors, phoneme
// strings) are borrowed: the library may reuse or invalidate them on the next
// call. The binding copies everything out before returning, so all values
// exposed by this module are plain owned Go values.
package espeakruntime
