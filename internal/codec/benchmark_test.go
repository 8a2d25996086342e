package codec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atikulmunna/agentlog/internal/model"
)

// BenchmarkEncode measures block rendering for a typical entry.
func BenchmarkEncode(b *testing.B) {
	e := model.Entry{
		Timestamp: "2026-02-17T12:00:00Z",
		Agent:     "GEMINI",
		Type:      "feature",
		Task:      "Estimate form",
		Content:   strings.Repeat("lorem ipsum ", 60),
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Encode(e)
	}
}

// BenchmarkDecode measures parsing a log of 1000 blocks.
func BenchmarkDecode(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString(Encode(model.Entry{
			Timestamp: "2026-02-17T12:00:00Z",
			Agent:     fmt.Sprintf("agent-%d", i%7),
			Type:      "general",
			Content:   fmt.Sprintf("entry number %d", i),
		}))
	}
	text := sb.String()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Decode(text)
	}
}
