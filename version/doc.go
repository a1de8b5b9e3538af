// Package version carries build metadata for wirekit applications.
//
// Values are set at compile time via -ldflags and fall back to the module
// build info embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/wirekit/version.Version=1.0.0"
package version
