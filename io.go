// File: lixenwraith/conftree/io.go
package conftree

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store overwrites the originating file with the whole document, not just this view.
// There is no backup and no rename.
func (c *Config) Store() error {
	return writeFile(c.doc.filename, []byte(c.serializeDocument()))
}

// StoreTo writes the whole document to path.
func (c *Config) StoreTo(path string) error {
	return writeFile(path, []byte(c.serializeDocument()))
}

// StoreAtomic writes the whole document to a temporary file next to path and
// renames it into place.
func (c *Config) StoreAtomic(path string) error {
	return atomicWriteFile(path, []byte(c.serializeDocument()))
}

func (c *Config) serializeDocument() string {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()
	return Serialize(c.doc.root)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", path, err)
	}
	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
