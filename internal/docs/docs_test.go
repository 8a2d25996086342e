package docs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/atikulmunna/agentlog/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGetAllowedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# Test Project\n")

	lib := NewLibrary(DefaultAllowed, []string{dir})
	doc, err := lib.Get("README.md")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Content != "# Test Project\n" || doc.Size != 15 {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.LastModified.IsZero() {
		t.Error("expected modification time")
	}
}

func TestGetRejectsNamesOutsideAllowList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "secret.env", "TOKEN=1")
	lib := NewLibrary(DefaultAllowed, []string{dir})

	for _, name := range []string{"secret.env", "../README.md", "readme.md", "README.md ", "./README.md", ""} {
		if _, err := lib.Get(name); apperr.GetCode(err) != apperr.ENotAllowed {
			t.Errorf("Get(%q): expected E_NOT_ALLOWED, got %v", name, err)
		}
	}
}

func TestGetFallsBackToLaterDirectories(t *testing.T) {
	local := t.TempDir()
	project := t.TempDir()
	writeFile(t, project, "PROJECT_GUIDE.md", "from project")

	lib := NewLibrary(DefaultAllowed, []string{local, project})
	doc, err := lib.Get("PROJECT_GUIDE.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content != "from project" || doc.Dir != project {
		t.Errorf("expected project copy, got %+v", doc)
	}

	writeFile(t, local, "PROJECT_GUIDE.md", "from local")
	doc, _ = lib.Get("PROJECT_GUIDE.md")
	if doc.Content != "from local" {
		t.Errorf("expected local copy to win, got %q", doc.Content)
	}
}

func TestGetMissingFile(t *testing.T) {
	lib := NewLibrary(DefaultAllowed, []string{t.TempDir()})

	_, err := lib.Get("GITHUB_SETUP.md")
	ae, ok := apperr.AsAppError(err)
	if !ok || ae.Code != apperr.ENotFound {
		t.Fatalf("expected E_NOT_FOUND, got %v", err)
	}
	if ae.Details["filename"] != "GITHUB_SETUP.md" {
		t.Errorf("expected filename detail, got %v", ae.Details)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "PROJECT_GUIDE.md", "app.jsx", "main.go", "notes.txt"} {
		writeFile(t, dir, name, "x")
	}
	now := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)

	s, err := Stats(dir, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalFiles != 5 || s.DocumentationFiles != 2 || s.SourceFiles != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
	if !s.LastUpdated.Equal(now) {
		t.Errorf("expected lastUpdated %v, got %v", now, s.LastUpdated)
	}

	if _, err := Stats(filepath.Join(dir, "missing"), now); apperr.GetCode(err) != apperr.ENotFound {
		t.Errorf("expected E_NOT_FOUND for missing dir, got %v", err)
	}
}
