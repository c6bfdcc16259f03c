package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/substrata-labs/vshell/pkg/workspace"
)

// WordCountTool counts lines, words and characters of inline text or a
// workspace file. It exists so the model can size content without spending a
// shell invocation on wc.
type WordCountTool struct {
	provider workspace.Provider
}

func NewWordCountTool(p workspace.Provider) *WordCountTool {
	return &WordCountTool{provider: p}
}

func (t *WordCountTool) Name() string {
	return "word_count"
}

func (t *WordCountTool) Description() string {
	return "Count lines, words and characters of text or a workspace file"
}

func (t *WordCountTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to analyze directly",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Workspace-relative file to analyze instead of text",
			},
		},
	}
}

func (t *WordCountTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	text, _ := getString(args, "text")
	path, _ := getString(args, "path")
	if text == "" && path == "" {
		return ErrorResult("provide either text or path")
	}

	source := "text"
	if path != "" {
		resolved, err := workspace.Resolve(path)
		if err != nil {
			return UserErrorResult(err.Error())
		}
		content, found, err := t.provider.Read(ctx, resolved)
		if err != nil {
			return ErrorResult(fmt.Sprintf("failed to read file: %v", err))
		}
		if !found {
			return UserErrorResult(fmt.Sprintf("no such file: %s", path))
		}
		text = content
		source = path
	}

	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	words := len(strings.Fields(text))
	chars := utf8.RuneCountInString(text)

	return NewToolResult(fmt.Sprintf("%s: %d lines, %d words, %d chars", source, lines, words, chars))
}
