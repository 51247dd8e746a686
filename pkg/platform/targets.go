package platform

import (
	"maps"
	"slices"
)

// targetInfo describes the cfg values of one known target triple.
type targetInfo struct {
	triple       string
	arch         string
	os           string
	env          string
	vendor       string
	families     []string
	pointerWidth int
	endian       string
	hasAtomic    []string
}

var (
	atomics64 = []string{"8", "16", "32", "64", "ptr"}
	atomics32 = []string{"8", "16", "32", "ptr"}
	unix      = []string{"unix"}
	windows   = []string{"windows"}
	wasm      = []string{"wasm"}
)

// targets is the built-in triple table.
var targets = indexTargets([]targetInfo{
	{"x86_64-unknown-linux-gnu", "x86_64", "linux", "gnu", "unknown", unix, 64, "little", atomics64},
	{"x86_64-unknown-linux-musl", "x86_64", "linux", "musl", "unknown", unix, 64, "little", atomics64},
	{"i686-unknown-linux-gnu", "x86", "linux", "gnu", "unknown", unix, 32, "little", atomics64},
	{"aarch64-unknown-linux-gnu", "aarch64", "linux", "gnu", "unknown", unix, 64, "little", atomics64},
	{"aarch64-unknown-linux-musl", "aarch64", "linux", "musl", "unknown", unix, 64, "little", atomics64},
	{"armv7-unknown-linux-gnueabihf", "arm", "linux", "gnu", "unknown", unix, 32, "little", atomics64},
	{"riscv64gc-unknown-linux-gnu", "riscv64", "linux", "gnu", "unknown", unix, 64, "little", atomics64},
	{"powerpc64le-unknown-linux-gnu", "powerpc64", "linux", "gnu", "unknown", unix, 64, "little", atomics64},
	{"s390x-unknown-linux-gnu", "s390x", "linux", "gnu", "unknown", unix, 64, "big", atomics64},
	{"aarch64-linux-android", "aarch64", "android", "", "unknown", unix, 64, "little", atomics64},
	{"x86_64-apple-darwin", "x86_64", "macos", "", "apple", unix, 64, "little", atomics64},
	{"aarch64-apple-darwin", "aarch64", "macos", "", "apple", unix, 64, "little", atomics64},
	{"aarch64-apple-ios", "aarch64", "ios", "", "apple", unix, 64, "little", atomics64},
	{"x86_64-unknown-freebsd", "x86_64", "freebsd", "", "unknown", unix, 64, "little", atomics64},
	{"x86_64-unknown-netbsd", "x86_64", "netbsd", "", "unknown", unix, 64, "little", atomics64},
	{"x86_64-pc-windows-msvc", "x86_64", "windows", "msvc", "pc", windows, 64, "little", atomics64},
	{"x86_64-pc-windows-gnu", "x86_64", "windows", "gnu", "pc", windows, 64, "little", atomics64},
	{"i686-pc-windows-msvc", "x86", "windows", "msvc", "pc", windows, 32, "little", atomics64},
	{"i686-pc-windows-gnu", "x86", "windows", "gnu", "pc", windows, 32, "little", atomics64},
	{"aarch64-pc-windows-msvc", "aarch64", "windows", "msvc", "pc", windows, 64, "little", atomics64},
	{"wasm32-unknown-unknown", "wasm32", "unknown", "", "unknown", wasm, 32, "little", atomics64},
	{"wasm32-wasip1", "wasm32", "wasi", "p1", "unknown", wasm, 32, "little", atomics64},
	{"thumbv7em-none-eabihf", "arm", "none", "", "unknown", nil, 32, "little", atomics32},
})

func indexTargets(list []targetInfo) map[string]*targetInfo {
	m := make(map[string]*targetInfo, len(list))
	for i := range list {
		m[list[i].triple] = &list[i]
	}
	return m
}

// KnownTriples returns every triple in the built-in table, sorted.
func KnownTriples() []string {
	return slices.Sorted(maps.Keys(targets))
}

// IsKnownTriple reports whether triple is in the built-in table.
func IsKnownTriple(triple string) bool {
	_, ok := targets[triple]
	return ok
}
