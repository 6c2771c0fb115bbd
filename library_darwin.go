package espeakruntime

// DefaultLibraryName is the install name the dynamic loader resolves when no
// explicit library path is given.
const DefaultLibraryName = "libespeak-ng.1.dylib"
