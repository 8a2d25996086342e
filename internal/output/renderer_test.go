package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/atikulmunna/agentlog/internal/model"
)

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := New("json", &buf)

	entry := model.Entry{
		Timestamp: "2026-02-17T12:00:00Z",
		Agent:     "GEMINI",
		Type:      "bugfix",
		Task:      "Estimator",
		Content:   "fixed rounding",
	}

	if err := renderer.Render(entry); err != nil {
		t.Fatal(err)
	}

	var got model.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}
	if got != entry {
		t.Errorf("expected %+v, got %+v", entry, got)
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := New("text", &buf)

	if err := renderer.Render(model.Entry{Timestamp: "ts", Agent: "CLAUDE", Task: "Login", Content: "done"}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"ts", "CLAUDE", "Login", "done", "general"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}
}
