package tools

import "context"

// Tool is the interface every capability exposed to the model implements.
// Parameters returns a JSON Schema object describing the arguments.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}) *ToolResult
}

// ToolResult separates what the model sees from what the user sees. ForLLM
// goes back into the conversation; ForUser is surfaced in the UI (empty means
// show nothing).
type ToolResult struct {
	ForLLM  string
	ForUser string
	IsError bool
}

// NewToolResult returns a success result shown to both the model and the user.
func NewToolResult(content string) *ToolResult {
	return &ToolResult{ForLLM: content, ForUser: content}
}

// SilentResult returns a success result the model sees but the user does not.
func SilentResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM}
}

// ErrorResult reports an internal failure to both the model and the user.
func ErrorResult(msg string) *ToolResult {
	return &ToolResult{ForLLM: msg, ForUser: msg, IsError: true}
}

// UserErrorResult reports a policy rejection (bad path, read-only workspace)
// phrased for the model to correct course on.
func UserErrorResult(msg string) *ToolResult {
	return &ToolResult{ForLLM: msg, ForUser: msg, IsError: true}
}

func getString(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}
