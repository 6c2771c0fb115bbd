// Package engine owns one isolated, initialized copy of the espeak-ng shared
// library and exposes its raw call surface.
//
// espeak-ng keeps all state in module globals, and every platform dynamic
// loader returns the same module when the same file path is opened twice.
// Open therefore copies the installed library into a private temporary
// directory and loads the copy, which yields a genuinely separate module with
// its own globals. The construction sequence is:
//
//  1. create a unique private temp directory
//  2. transiently load the installed library, resolve its real path, release it
//  3. copy the resolved file's bytes into the temp directory
//  4. load the copy and call espeak_Initialize in synchronous mode
//
// Teardown runs exactly once, either through an explicit Close or through a
// runtime cleanup when the Library becomes unreachable: espeak_Terminate is
// called best-effort, the handle is released, and the temp directory is
// removed. A construction failure at any step cleans up everything allocated
// before it and surfaces a typed error.
//
// A Library is one isolation domain. Distinct Libraries may be used from
// distinct goroutines concurrently; a single Library must not.
package engine
