//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package harness

import "runtime"

// HostPlatform returns the OS and architecture of the host.
func HostPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}
