package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/substrata-labs/vshell/pkg/workspace"
)

// The file tools share the shell's workspace provider, so a file the model
// writes here is immediately visible to shell commands and vice versa. Path
// validation is the same workspace-relative rule the shell applies.

type ReadFileTool struct {
	provider workspace.Provider
}

func NewReadFileTool(p workspace.Provider) *ReadFileTool {
	return &ReadFileTool{provider: p}
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Read the contents of a workspace file"
}

func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Workspace-relative path to the file to read",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	path, ok := getString(args, "path")
	if !ok {
		return ErrorResult("path is required")
	}

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

	return NewToolResult(content)
}

type WriteFileTool struct {
	provider workspace.Provider
}

func NewWriteFileTool(p workspace.Provider) *WriteFileTool {
	return &WriteFileTool{provider: p}
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Description() string {
	return "Write content to a workspace file, creating parent directories as needed"
}

func (t *WriteFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Workspace-relative path to the file to write",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to write to the file",
			},
		},
		"required": []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	path, ok := getString(args, "path")
	if !ok {
		return ErrorResult("path is required")
	}
	content, ok := getString(args, "content")
	if !ok {
		return ErrorResult("content is required")
	}

	resolved, err := workspace.Resolve(path)
	if err != nil {
		return UserErrorResult(err.Error())
	}

	if err := t.provider.Write(ctx, resolved, content); err != nil {
		return ErrorResult(fmt.Sprintf("failed to write file: %v", err))
	}

	return SilentResult(fmt.Sprintf("File written: %s", path))
}

type ListDirTool struct {
	provider workspace.Provider
}

func NewListDirTool(p workspace.Provider) *ListDirTool {
	return &ListDirTool{provider: p}
}

func (t *ListDirTool) Name() string {
	return "list_dir"
}

func (t *ListDirTool) Description() string {
	return "List files and directories at a workspace path"
}

func (t *ListDirTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Workspace-relative path to list",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ListDirTool) Execute(ctx context.Context, args map[string]interface{}) *ToolResult {
	path, ok := getString(args, "path")
	if !ok {
		path = "."
	}

	resolved, err := workspace.Resolve(path)
	if err != nil {
		return UserErrorResult(err.Error())
	}

	entries, err := t.provider.List(ctx, resolved)
	if err != nil {
		return ErrorResult(fmt.Sprintf("failed to list directory: %v", err))
	}

	var b strings.Builder
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") {
			b.WriteString("DIR:  " + strings.TrimSuffix(entry, "/") + "\n")
		} else {
			b.WriteString("FILE: " + entry + "\n")
		}
	}

	return NewToolResult(b.String())
}
