// Package version embeds build information for aopkit.
//
// Version and commit details are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/aopkit/version.Version=1.2.0"
//
// and fall back to the module build info recorded by the Go toolchain.
package version
