package espeakruntime

// DefaultLibraryName is the DLL name LoadLibrary resolves when no explicit
// library path is given.
const DefaultLibraryName = "libespeak-ng.dll"
