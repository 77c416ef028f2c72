package base

import "runtime"

// HostId identifies the platform family, grounded on the teacher's
// internal/base/HAL.go HostId type (used there to gate compiler-toolchain
// selection; here to gate path case-folding and the environment block format).
type HostId string

const (
	HOST_WINDOWS HostId = "WINDOWS"
	HOST_LINUX   HostId = "LINUX"
	HOST_DARWIN  HostId = "DARWIN"
)

func CurrentHost() HostId {
	switch runtime.GOOS {
	case "windows":
		return HOST_WINDOWS
	case "darwin":
		return HOST_DARWIN
	default:
		return HOST_LINUX
	}
}

// CaseSensitiveFileSystem reports whether the current platform's native
// filesystem is case-sensitive, consulted by NodeGraph.CleanPath (spec.md §4.1
// "case folding on case-insensitive filesystems").
func CaseSensitiveFileSystem() bool {
	return CurrentHost() == HOST_LINUX
}

// NativePathSeparator is the directory separator the current platform expects
// a canonicalized path to use (spec.md §4.1 "slash direction").
func NativePathSeparator() byte {
	if CurrentHost() == HOST_WINDOWS {
		return '\\'
	}
	return '/'
}
