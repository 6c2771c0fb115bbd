package espeakruntime

// AudioOutput selects how espeak_Initialize routes synthesized audio.
type AudioOutput int32

const (
	// AudioOutputPlayback plays audio asynchronously on the default device.
	AudioOutputPlayback AudioOutput = 0
	// AudioOutputRetrieval delivers audio to the registered callback.
	AudioOutputRetrieval AudioOutput = 1
	// AudioOutputSynchronous delivers audio to the callback and blocks the
	// calling thread until synthesis completes. This is the mode every
	// instance is initialized with: it keeps the call surface strictly
	// synchronous, so one instance never has native work in flight between
	// calls.
	AudioOutputSynchronous AudioOutput = 2
	// AudioOutputSynchPlayback plays audio on the default device, blocking.
	AudioOutputSynchPlayback AudioOutput = 3
)

// TextMode tells the library how input text is encoded (espeakCHARS_*).
type TextMode int32

const (
	TextModeAuto  TextMode = 0 // detect UTF-8 vs 8-bit
	TextModeUTF8  TextMode = 1
	TextMode8Bit  TextMode = 2 // ISO-8859 according to the voice
	TextModeWchar TextMode = 3
	TextModeUTF16 TextMode = 4
)

// Valid reports whether m is one of the espeakCHARS_* values.
func (m TextMode) Valid() bool {
	return m >= TextModeAuto && m <= TextModeUTF16
}

// PhonemeMode controls espeak_TextToPhonemes output.
//
// Bit 1 selects IPA output over eSpeak's ASCII phoneme mnemonics. Bits 8-23
// carry an optional separator character inserted between phoneme names.
type PhonemeMode int32

const (
	// PhonemeModeASCII outputs eSpeak's internal ASCII phoneme names.
	PhonemeModeASCII PhonemeMode = 0
	// PhonemeModeIPA outputs International Phonetic Alphabet as UTF-8.
	PhonemeModeIPA PhonemeMode = 0x02
)

// WithSeparator returns m with r inserted between phoneme names.
// Only the low 16 bits of r are representable in the native flag word.
func (m PhonemeMode) WithSeparator(r rune) PhonemeMode {
	return m | PhonemeMode(r&0xffff)<<8
}

// TraceMode controls the espeak_SetPhonemeTrace diagnostic stream.
type TraceMode int32

const (
	TraceOff      TraceMode = 0 // disable phoneme tracing
	TracePhonemes TraceMode = 1 // write phoneme mnemonics as text is spoken
	TraceIPA      TraceMode = 2 // trace in IPA instead of mnemonics
)

// Valid reports whether m is a known trace mode.
func (m TraceMode) Valid() bool {
	return m >= TraceOff && m <= TraceIPA
}

// SynthFlags modify espeak_Synth behavior. The low bits carry the text
// encoding (same values as TextMode); the rest are option bits.
type SynthFlags uint32

const (
	SynthCharsAuto  SynthFlags = 0
	SynthCharsUTF8  SynthFlags = 1
	SynthChars8Bit  SynthFlags = 2
	SynthCharsWchar SynthFlags = 3
	SynthCharsUTF16 SynthFlags = 4

	// SynthSSML interprets <...> SSML markup in the text.
	SynthSSML SynthFlags = 0x10
	// SynthPhonemes interprets [[...]] as phoneme mnemonics.
	SynthPhonemes SynthFlags = 0x100
	// SynthEndPause adds a sentence pause at the end of the text.
	SynthEndPause SynthFlags = 0x1000
)

// Gender is the voice gender field of a descriptor.
type Gender uint8

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
	GenderNeutral Gender = 3
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}
