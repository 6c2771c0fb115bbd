package espeakruntime

// DefaultLibraryName is the soname the dynamic loader resolves when no
// explicit library path is given.
const DefaultLibraryName = "libespeak-ng.so.1"
