// Package logfile owns the on-disk agent conversation log.
// The file is append-only; readers decode it with the codec.
package logfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/atikulmunna/agentlog/internal/codec"
	"github.com/atikulmunna/agentlog/internal/model"
)

// File is the append-only conversation log at a fixed path.
type File struct {
	path string
}

// New returns a File for path. The file is created on first append.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the log file location.
func (f *File) Path() string {
	return f.path
}

// Append encodes e and appends it as one write. A missing file (or parent
// directory) is created rather than failing the append.
func (f *File) Append(e model.Entry) error {
	block := []byte(codec.Encode(e))

	err := appendBytes(f.path, block, os.O_APPEND|os.O_WRONLY)
	if errors.Is(err, fs.ErrNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(f.path), 0755); mkErr != nil {
			return fmt.Errorf("creating log directory: %w", mkErr)
		}
		err = appendBytes(f.path, block, os.O_APPEND|os.O_CREATE|os.O_WRONLY)
	}
	if err != nil {
		return fmt.Errorf("appending to %s: %w", f.path, err)
	}
	return nil
}

func appendBytes(path string, data []byte, flag int) (err error) {
	fh, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = fh.Write(data)
	return err
}

// ReadAll decodes every well-formed entry in file order.
// A log that does not exist yet reads as empty.
func (f *File) ReadAll() ([]model.Entry, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return codec.Decode(string(data)), nil
}

// Recent returns at most limit entries, most recent first.
func (f *File) Recent(limit int) ([]model.Entry, error) {
	entries, err := f.ReadAll()
	if err != nil {
		return nil, err
	}

	// Reverse to newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
