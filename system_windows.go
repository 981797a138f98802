package ren

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// platformVersion reports the operating system version for system. It is
// defined in each platform-specific file so that a compilation error occurs
// on any platform where it is missing.
func platformVersion() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		// Presumably, we aren't on Windows NT, which means GetVersion should
		// give us what we want. Even if we are and the registry failed for
		// another reason, GetVersion is still better than giving up.
		return winVerGV()
	}
	defer k.Close()
	v, _, err := k.GetStringValue("CurrentVersion")
	if err != nil {
		return winVerGV()
	}
	return v
}

func winVerGV() string {
	v, err := windows.GetVersion()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", v&0xff, v>>8&0xff)
}
