package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/substrata-labs/vshell/pkg/logger"
)

// ToolRegistry holds the tools available to an agent turn. Safe for
// concurrent use.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool, replacing any existing tool with the same name.
func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetSummaries returns "name: description" lines for the system prompt.
func (r *ToolRegistry) GetSummaries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		summaries = append(summaries, fmt.Sprintf("%s: %s", t.Name(), t.Description()))
	}
	sort.Strings(summaries)
	return summaries
}

// GetDefinitions returns the tool definitions in the wire shape providers
// expect (name, description, input_schema).
func (r *ToolRegistry) GetDefinitions() []map[string]interface{} {
	defs := make([]map[string]interface{}, 0, len(r.tools))
	for _, name := range r.Names() {
		t, _ := r.Get(name)
		defs = append(defs, map[string]interface{}{
			"name":         t.Name(),
			"description":  t.Description(),
			"input_schema": t.Parameters(),
		})
	}
	return defs
}

// Execute runs the named tool. An unknown name is reported to the model as
// an error result rather than failing the turn.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	tool, ok := r.Get(name)
	if !ok {
		return ErrorResult(fmt.Sprintf("unknown tool: %s", name))
	}

	logger.DebugCF("tools", "executing tool", map[string]interface{}{
		"tool": name,
	})

	result := tool.Execute(ctx, args)
	if result == nil {
		return ErrorResult(fmt.Sprintf("tool %s returned no result", name))
	}
	return result
}
