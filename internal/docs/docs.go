// Package docs serves the allow-listed documentation files of the
// coordinated project.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperr "github.com/atikulmunna/agentlog/internal/errors"
)

// DefaultAllowed is the allow-list used when none is configured.
var DefaultAllowed = []string{
	"README.md",
	"PROJECT_GUIDE.md",
	"GETTING_STARTED.md",
	"agent-conversation.log",
	"change_log.txt",
	"GITHUB_SETUP.md",
	"PUSH_TO_GITHUB.md",
	"ARCHITECTURE_EVOLUTION.md",
}

// Document is a fetched documentation file.
type Document struct {
	Filename     string    `json:"filename"`
	Content      string    `json:"content"`
	Size         int       `json:"size"`
	LastModified time.Time `json:"lastModified"`
	Dir          string    `json:"-"`
}

// Library looks up allow-listed files in an ordered list of directories.
type Library struct {
	allowed map[string]struct{}
	dirs    []string
}

// NewLibrary creates a Library. dirs are searched in order.
func NewLibrary(allowed []string, dirs []string) *Library {
	l := &Library{
		allowed: make(map[string]struct{}, len(allowed)),
		dirs:    append([]string(nil), dirs...),
	}
	for _, name := range allowed {
		l.allowed[name] = struct{}{}
	}
	return l
}

// Allowed reports whether name is byte-for-byte on the allow-list.
func (l *Library) Allowed(name string) bool {
	_, ok := l.allowed[name]
	return ok
}

// Get returns the first copy of name found in the library directories.
// Names outside the allow-list are rejected before any path is built.
func (l *Library) Get(name string) (*Document, error) {
	if !l.Allowed(name) {
		return nil, apperr.NewWithDetails(apperr.ENotAllowed, "File not allowed", map[string]string{"filename": name})
	}

	for _, dir := range l.dirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.EReadFailed, "Failed to read document", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperr.Wrap(apperr.EReadFailed, "Failed to read document", err)
		}
		return &Document{
			Filename:     name,
			Content:      string(data),
			Size:         len(data),
			LastModified: info.ModTime(),
			Dir:          dir,
		}, nil
	}

	return nil, apperr.NewWithDetails(apperr.ENotFound, "File not found", map[string]string{
		"filename": name,
		"message":  fmt.Sprintf("%s does not exist in any documentation directory.", name),
	})
}

// DirStats summarizes the files in a project directory.
type DirStats struct {
	TotalFiles         int       `json:"totalFiles"`
	DocumentationFiles int       `json:"documentationFiles"`
	SourceFiles        int       `json:"sourceFiles"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

var sourceExts = map[string]bool{".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".go": true}

// Stats counts the entries directly inside dir.
func Stats(dir string, now time.Time) (DirStats, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return DirStats{}, apperr.Wrap(apperr.ENotFound, "Project path not configured", err)
	}
	if err != nil {
		return DirStats{}, apperr.Wrap(apperr.EReadFailed, "Failed to read project directory", err)
	}

	s := DirStats{TotalFiles: len(entries), LastUpdated: now}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".md") {
			s.DocumentationFiles++
		}
		if sourceExts[filepath.Ext(name)] {
			s.SourceFiles++
		}
	}
	return s, nil
}
