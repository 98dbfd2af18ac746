package chat

import "strings"

// ContextPreamble opens the retrieved-context block handed to the model.
const ContextPreamble = "Based on internal knowledge:"

// FormatContext flattens retrieved documents into a single context string.
// An empty input yields an empty string, which signals "omit the context
// message" to the orchestrator. Document order is preserved.
func FormatContext(docs []string) string {
	if len(docs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(ContextPreamble)
	b.WriteString("\n\n")
	for _, doc := range docs {
		b.WriteString(doc)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
