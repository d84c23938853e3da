//go:build linux || darwin || freebsd || netbsd || openbsd

package harness

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// HostPlatform returns the OS, architecture and uname facts of the host.
func HostPlatform() Platform {
	p := Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return p
	}
	p.Kernel = unix.ByteSliceToString(u.Sysname[:])
	p.Release = unix.ByteSliceToString(u.Release[:])
	p.Machine = unix.ByteSliceToString(u.Machine[:])
	return p
}
