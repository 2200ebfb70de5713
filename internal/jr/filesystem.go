package jr

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and rejects
	// devices, named pipes and sockets.
	Resolve(rawPath string) (*Path, error)

	// ReadDir returns the names of all entries in a directory, sorted by name.
	// Sub-directories are included.
	ReadDir(dir *Path) ([]string, error)

	// Exists reports whether an entry exists at the absolute path.
	// A missing entry is not an error.
	Exists(absPath string) (bool, error)

	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error
}
