// Package dlpath resolves the absolute on-disk path of an already-loaded
// dynamic library handle.
//
// The binding needs the real file behind a loaded library so it can copy it
// into a private directory and reload the copy as an independent module.
// Each platform exposes this through a different mechanism:
//
//   - Linux: dlinfo(handle, RTLD_DI_LINKMAP) and the link_map l_name field
//   - macOS: dlsym a known symbol, then dladdr to recover dli_fname
//   - Windows: GetModuleFileName on the module handle
//
// Resolution is a one-shot construction-time operation: it either returns an
// absolute path or a typed path-resolution error, never retries.
package dlpath
