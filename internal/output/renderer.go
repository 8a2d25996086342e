package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atikulmunna/agentlog/internal/advisor"
	"github.com/atikulmunna/agentlog/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes log entries to an output stream.
type Renderer interface {
	Render(entry model.Entry) error
}

// New returns the renderer for format ("text" or "json") writing to w.
func New(format string, w io.Writer) Renderer {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(format) {
	case "json":
		return &JSONRenderer{enc: json.NewEncoder(w)}
	default:
		return &TextRenderer{w: w}
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleGeneral  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleFeature  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	styleBugfix   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDocs     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))  // blue
	styleRefactor = lipgloss.NewStyle().Foreground(lipgloss.Color("135")) // purple
	styleChat     = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))  // cyan
	styleAnalysis = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // amber
	styleAgent    = lipgloss.NewStyle().Bold(true)
	styleTask     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
)

// TextRenderer prints entries to the terminal with type-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(entry model.Entry) error {
	line := fmt.Sprintf("%s %s %s", entry.Timestamp, styleTypeTag(entry.Type), styleAgent.Render(entry.Agent))
	if entry.Task != "" {
		line += " " + styleTask.Render("["+entry.Task+"]")
	}
	line += " " + entry.Content
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleTypeTag(typ string) string {
	if typ == "" {
		typ = advisor.DefaultTag
	}
	padded := fmt.Sprintf("%-8s", typ)
	switch typ {
	case "feature":
		return styleFeature.Render(padded)
	case "bugfix":
		return styleBugfix.Render(padded)
	case "docs":
		return styleDocs.Render(padded)
	case "refactor":
		return styleRefactor.Render(padded)
	case "chat":
		return styleChat.Render(padded)
	case "analysis":
		return styleAnalysis.Render(padded)
	default:
		return styleGeneral.Render(padded)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(entry model.Entry) error {
	return r.enc.Encode(entry)
}
