package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textNode(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func paragraph(children ...any) map[string]any {
	return map[string]any{"type": "paragraph", "content": children}
}

func doc(children ...any) map[string]any {
	return map[string]any{"type": "doc", "version": 1, "content": children}
}

func TestDocToPlainText(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want string
	}{
		{
			name: "nil input",
			doc:  nil,
			want: "",
		},
		{
			name: "non-object input",
			doc:  "not a document",
			want: "",
		},
		{
			name: "single paragraph",
			doc:  doc(paragraph(textNode("hello world"))),
			want: "hello world",
		},
		{
			name: "two paragraphs",
			doc:  doc(paragraph(textNode("one")), paragraph(textNode("two"))),
			want: "one\ntwo",
		},
		{
			name: "hard break inside a paragraph",
			doc: doc(paragraph(
				textNode("line one"),
				map[string]any{"type": "hardBreak"},
				textNode("line two"),
			)),
			want: "line one\nline two",
		},
		{
			name: "heading and code block render as blocks",
			doc: doc(
				map[string]any{"type": "heading", "content": []any{textNode("Title")}},
				map[string]any{"type": "codeBlock", "content": []any{textNode("x := 1")}},
			),
			want: "Title\nx := 1",
		},
		{
			name: "unknown node type passes children through",
			doc: doc(map[string]any{
				"type":    "panel",
				"content": []any{paragraph(textNode("inside"))},
			}),
			want: "inside",
		},
		{
			name: "empty paragraphs collapse to one blank line",
			doc: doc(
				paragraph(textNode("a")),
				paragraph(),
				paragraph(),
				paragraph(),
				paragraph(textNode("b")),
			),
			want: "a\n\nb",
		},
		{
			name: "list items",
			doc: doc(map[string]any{
				"type": "bulletList",
				"content": []any{
					map[string]any{"type": "listItem", "content": []any{textNode("first")}},
					map[string]any{"type": "listItem", "content": []any{textNode("second")}},
				},
			}),
			want: "first\nsecond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocToPlainText(tt.doc))
		})
	}
}

func TestDocFromPlainText(t *testing.T) {
	result := DocFromPlainText("first\r\n\r\nthird")

	assert.Equal(t, "doc", result["type"])
	assert.Equal(t, docVersion, result["version"])

	content, ok := result["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 3)

	// The empty middle line becomes a paragraph without children.
	middle, ok := content[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "paragraph", middle["type"])
	_, hasContent := middle["content"]
	assert.False(t, hasContent)
}

func TestDocRoundTrip(t *testing.T) {
	tests := []string{
		"single line",
		"two\nlines",
		"blank\n\nline between",
		"ends with text\nand more",
		"quotes \"inside\" and symbols: <>&",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Equal(t, text, DocToPlainText(DocFromPlainText(text)))
		})
	}
}

func TestDocRoundTripNormalizesCRLF(t *testing.T) {
	assert.Equal(t, "a\nb", DocToPlainText(DocFromPlainText("a\r\nb")))
}
