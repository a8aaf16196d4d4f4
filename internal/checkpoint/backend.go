package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Backend is the storage contract checkpoint.Store writes through. The
// default name ("chk.cst.p") is spec.md §6's convention; callers may
// substitute any Backend that honors the contract.
type Backend interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	List() ([]string, error)
	Delete(name string) error
}

// FileBackend writes checkpoints to a local directory — the default
// backend (config.Checkpoint.Backend == "file").
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend { return &FileBackend{Dir: dir} }

func (b *FileBackend) Write(name string, data []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: creating %s: %w", b.Dir, err)
	}
	return os.WriteFile(filepath.Join(b.Dir, name), data, 0o644)
}

func (b *FileBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.Dir, name))
}

func (b *FileBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (b *FileBackend) Delete(name string) error {
	return os.Remove(filepath.Join(b.Dir, name))
}
