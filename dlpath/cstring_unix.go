//go:build !windows

package dlpath

import "unsafe"

// cstring copies a NUL-terminated C string out of loader-owned memory.
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
