package util

import "golang.org/x/sys/unix"

// AvailableMemoryBytes returns an estimate of free host memory in bytes.
// Returns 0 if the value cannot be determined.
func AvailableMemoryBytes() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Freeram) * uint64(info.Unit)
}

// TotalMemoryBytes returns total host memory in bytes.
// Returns 0 if the value cannot be determined.
func TotalMemoryBytes() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
