// Package voice mirrors the fixed binary layout of the native espeak_VOICE
// descriptor and converts between it and plain Go values.
//
// Descriptors returned by the native library are borrowed: the memory belongs
// to the library and may be reused or invalidated by its next call. Decode
// and DecodeList therefore copy every field out immediately and return owned
// Voice values with no ties to native memory.
//
// Going the other direction, a Filter encodes a voice specification into a
// C-compatible struct for espeak_ListVoices. The backing memory is pinned for
// the duration of the native call and released with Free.
package voice
