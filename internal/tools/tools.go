// Package tools defines the Tool interface, Registry, and ToolResult used by
// the agent loop, plus the built-in CSV analysis tools.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tablemind-ai/tablemind/internal/provider"
)

const defaultInlineOutputChars = 4000

// Tool is the core executable action exposed to the LLM.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// ToolResult is the normalized output returned by tools.
type ToolResult struct {
	Output    string
	Truncated bool
}

// TruncateOutput bounds tool output so one verbose result cannot swamp the
// model context.
func TruncateOutput(output string, limit int) *ToolResult {
	if limit <= 0 {
		limit = defaultInlineOutputChars
	}
	if len(output) <= limit {
		return &ToolResult{Output: output}
	}
	return &ToolResult{Output: output[:limit], Truncated: true}
}

// Registry stores tools by unique name.
type Registry struct {
	byName map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool by unique name.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return errors.New("tool cannot be nil")
	}
	name := tool.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.byName[name] = tool
	return nil
}

// Lookup returns a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Tools returns all registered tools in stable name order.
func (r *Registry) Tools() []Tool {
	keys := make([]string, 0, len(r.byName))
	for name := range r.byName {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	out := make([]Tool, 0, len(keys))
	for _, name := range keys {
		out = append(out, r.byName[name])
	}
	return out
}

// ToolDefinitions converts registered tools into LLM request tool definitions.
func (r *Registry) ToolDefinitions() []provider.ToolDefinition {
	tools := r.Tools()
	defs := make([]provider.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, provider.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Schema(),
		})
	}
	return defs
}

// ValidateArgs checks model-supplied arguments against a tool's JSON schema:
// required keys must be present and typed properties must match their declared
// type. Unknown keys pass through untouched.
func ValidateArgs(schema map[string]any, args map[string]any) error {
	for _, key := range requiredKeys(schema) {
		if _, present := args[key]; !present {
			return fmt.Errorf("missing required argument %q", key)
		}
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for key, raw := range args {
		prop, ok := props[key].(map[string]any)
		if !ok {
			continue
		}
		declared, _ := prop["type"].(string)
		if declared == "" {
			continue
		}
		if !matchesType(declared, raw) {
			return fmt.Errorf("argument %q must be a %s", key, declared)
		}
	}
	return nil
}

// requiredKeys reads the schema's required list, which is []string when built
// in-process and []any after a round-trip through JSON.
func requiredKeys(schema map[string]any) []string {
	switch v := schema["required"].(type) {
	case []string:
		return v
	case []any:
		keys := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				keys = append(keys, s)
			}
		}
		return keys
	}
	return nil
}

func matchesType(declared string, v any) bool {
	switch declared {
	case "string":
		_, ok := v.(string)
		return ok
	case "number", "integer":
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}
