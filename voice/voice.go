package voice

import (
	"runtime"
	"strings"
	"unsafe"

	espeakruntime "github.com/phonemix/espeak-runtime"
)

// rawVoice mirrors espeak_VOICE from speak_lib.h exactly. Field order, widths
// and padding are part of the native ABI and must not change. C pointers are
// held as uintptr so the GC never scans library-owned memory.
//
//	typedef struct {
//		const char *name;
//		const char *languages;
//		const char *identifier;
//		unsigned char gender;
//		unsigned char age;
//		unsigned char variant;
//		unsigned char xx1;
//		int score;
//		void *spare;
//	} espeak_VOICE;
type rawVoice struct {
	name       uintptr
	languages  uintptr
	identifier uintptr
	gender     uint8
	age        uint8
	variant    uint8
	xx1        uint8
	score      int32
	spare      uintptr
}

// Language is one entry of a descriptor's language list. Lower priority
// values mean the voice is a better match for that language.
type Language struct {
	Code     string
	Priority uint8
}

// Voice is an owned copy of a native voice descriptor.
type Voice struct {
	Name       string
	Identifier string
	Languages  []Language
	Gender     espeakruntime.Gender
	Age        uint8
	Variant    uint8
	Score      int32
}

// Language returns the code of the highest-priority language, or "" when the
// descriptor carries none.
func (v Voice) Language() string {
	if len(v.Languages) == 0 {
		return ""
	}
	best := v.Languages[0]
	for _, l := range v.Languages[1:] {
		if l.Priority < best.Priority {
			best = l
		}
	}
	return best.Code
}

func (v Voice) String() string {
	var b strings.Builder
	b.WriteString(v.Name)
	if lang := v.Language(); lang != "" {
		b.WriteString(" (")
		b.WriteString(lang)
		b.WriteByte(')')
	}
	return b.String()
}

// Decode copies a borrowed espeak_VOICE out of native memory. The pointer is
// only dereferenced during this call; the returned Voice owns all its data.
func Decode(p unsafe.Pointer) Voice {
	raw := (*rawVoice)(p)
	return Voice{
		Name:       cstring(raw.name),
		Identifier: cstring(raw.identifier),
		Languages:  decodeLanguages(raw.languages),
		Gender:     espeakruntime.Gender(raw.gender),
		Age:        raw.age,
		Variant:    raw.variant,
		Score:      raw.score,
	}
}

// DecodeList copies a NULL-terminated espeak_VOICE* array out of native
// memory, as returned by espeak_ListVoices.
func DecodeList(p unsafe.Pointer) []Voice {
	if p == nil {
		return nil
	}
	var out []Voice
	for {
		entry := *(*uintptr)(p)
		if entry == 0 {
			break
		}
		out = append(out, Decode(unsafe.Pointer(entry)))
		p = unsafe.Add(p, unsafe.Sizeof(uintptr(0)))
	}
	return out
}

// decodeLanguages parses the descriptor language blob: a sequence of
// (priority byte, NUL-terminated code) pairs ended by a zero byte.
func decodeLanguages(p uintptr) []Language {
	if p == 0 {
		return nil
	}
	var out []Language
	for {
		prio := *(*byte)(unsafe.Pointer(p))
		if prio == 0 {
			break
		}
		p++
		code := cstring(p)
		p += uintptr(len(code)) + 1
		out = append(out, Language{Code: code, Priority: prio})
	}
	return out
}

// Filter is a pinned, C-compatible espeak_VOICE used as the voice_spec
// argument of espeak_ListVoices. It stays valid until Free is called; Free
// must run after the native call returns.
//
// When used as a filter the languages field is a plain language string, not
// the priority-pair blob found in returned descriptors, so only Language of
// the spec participates in matching.
type Filter struct {
	raw  *rawVoice
	bufs [][]byte
	pin  runtime.Pinner
}

// Spec is the caller-facing voice filter specification. Zero fields match
// everything.
type Spec struct {
	Name     string
	Language string
	Gender   espeakruntime.Gender
	Age      uint8
	Variant  uint8
}

// NewFilter encodes spec into pinned native-compatible memory.
func NewFilter(spec Spec) *Filter {
	f := &Filter{raw: &rawVoice{
		gender:  uint8(spec.Gender),
		age:     spec.Age,
		variant: spec.Variant,
	}}
	f.pin.Pin(f.raw)
	f.raw.name = f.cbytes(spec.Name)
	f.raw.languages = f.cbytes(spec.Language)
	return f
}

// Ptr returns the native pointer to pass as voice_spec.
func (f *Filter) Ptr() unsafe.Pointer {
	return unsafe.Pointer(f.raw)
}

// Free releases the pinned backing memory. The filter must not be used after.
func (f *Filter) Free() {
	f.pin.Unpin()
	f.raw = nil
	f.bufs = nil
}

// cbytes pins a NUL-terminated copy of s and returns its address, or 0 for
// the empty string (NULL matches everything in the native filter).
func (f *Filter) cbytes(s string) uintptr {
	if s == "" {
		return 0
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	f.pin.Pin(&b[0])
	f.bufs = append(f.bufs, b)
	return uintptr(unsafe.Pointer(&b[0]))
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
