package dlpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ebitengine/purego"
)

// Resolving libc exercises the whole dlinfo path without requiring espeak-ng.
func TestResolve_Libc(t *testing.T) {
	h, err := purego.Dlopen("libc.so.6", purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		t.Skipf("cannot dlopen libc.so.6: %v", err)
	}
	defer purego.Dlclose(h)

	path, err := Resolve(h, "malloc")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("resolved path %q is not absolute", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("resolved path %q does not exist: %v", path, err)
	}
}
