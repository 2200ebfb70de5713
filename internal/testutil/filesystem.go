package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"jrename/internal/jr"
)

// MockEntry represents a file or directory in the mock filesystem.
type MockEntry struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Entries are keyed by absolute path; parents are not created implicitly.
type MockFilesystemManager struct {
	entries map[string]*MockEntry

	// RenameErr, when set, is returned by Rename for the named source basename.
	RenameErr map[string]error
	// Renames records every successful rename as "old -> new" basenames.
	Renames []string
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		entries:   make(map[string]*MockEntry),
		RenameErr: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.entries[path] = &MockEntry{
		Content:     content,
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.entries[path] = &MockEntry{
		Permissions: 0755,
		ModTime:     time.Now(),
		IsDirectory: true,
	}
}

// Has reports whether an entry exists at path.
func (m *MockFilesystemManager) Has(path string) bool {
	_, ok := m.entries[path]
	return ok
}

// Content returns the content of the file at path.
func (m *MockFilesystemManager) Content(path string) []byte {
	if e, ok := m.entries[path]; ok {
		return e.Content
	}
	return nil
}

// Names returns the sorted basenames of the direct children of dir.
func (m *MockFilesystemManager) Names(dir string) []string {
	var names []string
	prefix := strings.TrimSuffix(dir, "/") + "/"
	for p := range m.entries {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			names = append(names, p[len(prefix):])
		}
	}
	sort.Strings(names)
	return names
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*jr.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	entry, ok := m.entries[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	info := &mockFileInfo{
		name:    filepath.Base(absPath),
		size:    int64(len(entry.Content)),
		mode:    entry.Permissions,
		modTime: entry.ModTime,
		isDir:   entry.IsDirectory,
	}
	return jr.NewPath(absPath, entry.IsDirectory, info), nil
}

func (m *MockFilesystemManager) ReadDir(dir *jr.Path) ([]string, error) {
	entry, ok := m.entries[dir.String()]
	if !ok {
		return nil, fmt.Errorf("directory not found: %s", dir.String())
	}
	if !entry.IsDirectory {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}
	return m.Names(dir.String()), nil
}

func (m *MockFilesystemManager) Exists(absPath string) (bool, error) {
	return m.Has(absPath), nil
}

func (m *MockFilesystemManager) Rename(oldPath, newPath string) error {
	if err := m.RenameErr[filepath.Base(oldPath)]; err != nil {
		return err
	}
	entry, ok := m.entries[oldPath]
	if !ok {
		return fmt.Errorf("file not found: %s", oldPath)
	}
	delete(m.entries, oldPath)
	m.entries[newPath] = entry
	m.Renames = append(m.Renames, filepath.Base(oldPath)+" -> "+filepath.Base(newPath))
	return nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ jr.FilesystemManager = (*MockFilesystemManager)(nil)
