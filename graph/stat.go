package graph

import "os"

// statFile returns the modification time of path as a Stamp, the same
// last-write-time convention FileNode uses.
func statFile(path string) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return Stamp(info.ModTime().UnixNano()), nil
}
