// Package runtime is the high-level API for isolated espeak-ng instances.
//
// An Instance wraps one engine.Library: one private copy of the shared
// library with its own global state. The facade validates arguments before
// they cross the FFI boundary and returns owned Go values; it adds no state
// and no policy of its own.
//
//	inst, err := runtime.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close()
//
// Instances are independent isolation domains: voice selection, synthesis
// parameters and internal buffers of one instance never affect another. A
// single Instance is NOT safe for concurrent use; see the engine package.
package runtime
