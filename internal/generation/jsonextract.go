package generation

import "strings"

// extractJSON pulls a JSON document out of a model response. It prefers a
// fenced ```json block, then the outermost brace pair, then the raw text.
func extractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}
