// Package advisor holds the static, keyword-based rules that suggest which
// external AI tool fits a task and which tag fits a pasted response.
package advisor

import (
	"regexp"
	"strings"
)

// Complexity levels returned by Analyze.
const (
	High   = "HIGH"
	Medium = "MEDIUM"
	Low    = "LOW"
)

var (
	highKeywords = []string{
		"architecture", "refactor", "optimize", "database", "security",
		"authentication", "api design", "scalability", "migration", "system design",
	}
	mediumKeywords = []string{
		"feature", "component", "integration", "workflow", "logic",
		"state management", "routing", "form", "validation",
	}
	lowKeywords = []string{
		"style", "css", "color", "button", "text", "layout", "spacing",
		"dark mode", "theme", "icon", "margin", "padding",
	}
)

// Analyze rates a task description. Unknown tasks default to Medium.
func Analyze(description string) string {
	task := strings.ToLower(description)
	switch {
	case containsAny(task, highKeywords):
		return High
	case containsAny(task, mediumKeywords):
		return Medium
	case containsAny(task, lowKeywords):
		return Low
	default:
		return Medium
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Tool is one recommended assistant.
type Tool struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	HasGitHub bool   `json:"hasGitHub"`
}

// Recommendation is the routing advice for a task.
type Recommendation struct {
	Complexity string   `json:"complexity"`
	Primary    Tool     `json:"primary"`
	Secondary  Tool     `json:"secondary"`
	Backup     *Tool    `json:"backup,omitempty"`
	DontUse    []string `json:"dontUse"`
}

const (
	mistral = "Mistral Le Chat"
	gemini  = "Gemini Code Assist"
	copilot = "GitHub Copilot"
	chatgpt = "ChatGPT"
)

var recommendations = map[string]Recommendation{
	High: {
		Primary:   Tool{Name: mistral, Reason: "Strategic planning needed - Mistral has GitHub access and lots of context", HasGitHub: true},
		Secondary: Tool{Name: gemini, Reason: "After Mistral provides the plan, use Code Assist to implement"},
		Backup:    &Tool{Name: chatgpt, Reason: "Alternative planner with GitHub access", HasGitHub: true},
		DontUse:   []string{"GitHub Copilot alone", "Grok (needs too much context)"},
	},
	Medium: {
		Primary:   Tool{Name: gemini, Reason: "Perfect for feature implementation in your IDE"},
		Secondary: Tool{Name: copilot, Reason: "Backup code assistant if Gemini struggles"},
		Backup:    &Tool{Name: mistral, Reason: "If you need architecture advice first", HasGitHub: true},
		DontUse:   []string{"Claude (overkill)", "Grok (overkill)"},
	},
	Low: {
		Primary:   Tool{Name: gemini, Reason: "Simple styling/UI - let autocomplete do the work"},
		Secondary: Tool{Name: copilot, Reason: "Alternative autocomplete"},
		DontUse:   []string{"Mistral (too simple)", "ChatGPT (too simple)", "Claude (too simple)", "Grok (way overkill)"},
	},
}

// Recommend returns the routing advice for a task description.
func Recommend(description string) Recommendation {
	c := Analyze(description)
	r := recommendations[c]
	r.Complexity = c
	if r.Backup != nil {
		b := *r.Backup
		r.Backup = &b
	}
	r.DontUse = append([]string(nil), r.DontUse...)
	return r
}

// DefaultTag is used when no rule matches.
const DefaultTag = "general"

var autoTags = []struct {
	pattern *regexp.Regexp
	tag     string
}{
	{regexp.MustCompile(`(?i)^(feat|feature|add):`), "feature"},
	// fix, bug, fix:, bugfix: (the colon forms are covered by the bare prefixes)
	{regexp.MustCompile(`(?i)^(fix|bug|bugfix)`), "bugfix"},
	{regexp.MustCompile(`(?i)^(docs?|documentation)`), "docs"},
	// refactor, refactor:, rename
	{regexp.MustCompile(`(?i)^(refactor|rename)`), "refactor"},
	{regexp.MustCompile(`(?i)^(chat|conversation|discuss)`), "chat"},
	{regexp.MustCompile(`(?i)^(analyze|analysis|review)`), "analysis"},
}

// AutoTag infers a type tag from the start of content.
func AutoTag(content string) string {
	content = strings.TrimSpace(content)
	for _, r := range autoTags {
		if r.pattern.MatchString(content) {
			return r.tag
		}
	}
	return DefaultTag
}
