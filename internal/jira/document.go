package jira

import "strings"

// docVersion is the schema version of generated rich-text documents.
const docVersion = 1

// blockNodeTypes are document node types rendered as a block: their
// children are concatenated and followed by one newline.
var blockNodeTypes = map[string]bool{
	"paragraph":  true,
	"heading":    true,
	"codeBlock":  true,
	"blockquote": true,
	"listItem":   true,
}

// DocToPlainText converts a rich-text document tree (Atlassian Document
// Format) to plain text. Unknown node types render their children
// unchanged, so new node types degrade gracefully. Missing or non-object
// input yields an empty string.
func DocToPlainText(doc any) string {
	node, ok := doc.(map[string]any)
	if !ok {
		return ""
	}

	var sb strings.Builder
	writeNode(&sb, node)

	out := sb.String()

	// Collapse runs of three or more newlines down to a blank line.
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(out)
}

// writeNode renders one document node into sb.
func writeNode(sb *strings.Builder, node map[string]any) {
	nodeType, _ := node["type"].(string)

	switch {
	case nodeType == "text":
		if text, ok := node["text"].(string); ok {
			sb.WriteString(text)
		}
	case nodeType == "hardBreak":
		sb.WriteString("\n")
	case blockNodeTypes[nodeType]:
		writeChildren(sb, node)
		sb.WriteString("\n")
	default:
		writeChildren(sb, node)
	}
}

// writeChildren renders the ordered children of a node.
func writeChildren(sb *strings.Builder, node map[string]any) {
	children, ok := node["content"].([]any)
	if !ok {
		return
	}
	for _, child := range children {
		if childNode, ok := child.(map[string]any); ok {
			writeNode(sb, childNode)
		}
	}
}

// DocFromPlainText converts plain text to a rich-text document: one
// paragraph per line, with empty lines becoming empty paragraphs so
// blank lines survive a round trip.
func DocFromPlainText(text string) map[string]any {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	content := make([]any, 0, len(lines))
	for _, line := range lines {
		paragraph := map[string]any{"type": "paragraph"}
		if line != "" {
			paragraph["content"] = []any{
				map[string]any{"type": "text", "text": line},
			}
		}
		content = append(content, paragraph)
	}

	return map[string]any{
		"type":    "doc",
		"version": docVersion,
		"content": content,
	}
}
