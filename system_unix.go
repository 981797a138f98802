//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package ren

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

// platformVersion reports the operating system version for system. It is
// defined in each platform-specific file so that a compilation error occurs
// on any platform where it is missing.
func platformVersion() string {
	var uname unix.Utsname
	if unix.Uname(&uname) != nil {
		// If uname failed, we don't have anything else to try.
		return ""
	}
	v, r := uname.Version[:], uname.Release[:]
	return fmt.Sprintf("%s.%s", bytes.Trim(v, "\x00"), bytes.Trim(r, "\x00"))
}
