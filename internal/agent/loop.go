// Package agent runs the conversational tool-calling loop: it alternates
// between model requests and tool execution until the model returns a final
// text answer or the turn's iteration budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tablemind-ai/tablemind/internal/logging"
	"github.com/tablemind-ai/tablemind/internal/provider"
	"github.com/tablemind-ai/tablemind/internal/tools"
)

const defaultMaxIterations = 10

// State is the loop's position in a turn.
type State int

const (
	// StateAwaitingModel means a model request is in flight or about to be.
	StateAwaitingModel State = iota
	// StateExecutingTools means the model requested tool calls that are running.
	StateExecutingTools
	// StateDone means the model returned a final text answer.
	StateDone
	// StateFailed means the turn ended on a backend error or the iteration limit.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RunOptions bounds one turn of the loop.
type RunOptions struct {
	MaxIterations   int
	MaxTokens       int
	ToolOutputLimit int
	// ProviderName labels backend errors; informational only.
	ProviderName string
}

// Run executes the agent loop until the model returns a final text response.
// Tool-level failures (unknown tool, bad arguments, execution errors) are fed
// back to the model as tool results so it can recover; only backend errors
// and the iteration ceiling end the turn early.
func Run(
	ctx context.Context,
	p provider.Provider,
	registry *tools.Registry,
	systemPrompt string,
	messages []provider.ChatMessage,
	opts RunOptions,
) (*provider.ChatResponse, []provider.ChatMessage, error) {
	if p == nil {
		return nil, nil, fmt.Errorf("provider is required")
	}
	if registry == nil {
		return nil, nil, fmt.Errorf("tool registry is required")
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	history := append([]provider.ChatMessage(nil), messages...)
	toolDefs := registry.ToolDefinitions()
	totalUsage := provider.TokenUsage{}
	state := StateAwaitingModel

	for i := 0; i < maxIterations; i++ {
		// Each iteration sends the full conversation state and available tools.
		// The model either returns final text or a set of tool calls.
		logging.Logger().Info(
			"llm request",
			"state", state,
			"iteration", i+1,
			"message_count", len(history),
			"tool_count", len(toolDefs),
		)

		resp, err := p.Chat(ctx, provider.ChatRequest{
			SystemPrompt: systemPrompt,
			Messages:     history,
			Tools:        toolDefs,
			MaxTokens:    opts.MaxTokens,
		})
		if err != nil {
			state = StateFailed
			logging.Logger().Error("llm request failed", "state", state, "iteration", i+1, "err", err)
			return nil, history, &BackendError{Provider: opts.ProviderName, Err: err}
		}
		logging.Logger().Info(
			"llm response",
			"iteration", i+1,
			"tool_call_count", len(resp.ToolCalls),
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"total_tokens", resp.Usage.TotalTokens,
		)

		totalUsage.InputTokens += resp.Usage.InputTokens
		totalUsage.OutputTokens += resp.Usage.OutputTokens
		totalUsage.TotalTokens += resp.Usage.TotalTokens

		if len(resp.ToolCalls) == 0 {
			state = StateDone
			if resp.Content != "" {
				history = append(history, provider.ChatMessage{
					Role:    provider.RoleAssistant,
					Content: resp.Content,
				})
			}
			resp.Usage = totalUsage
			return resp, history, nil
		}

		state = StateExecutingTools
		history = append(history, provider.ChatMessage{
			Role:      provider.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		history = append(history, executeToolCalls(ctx, registry, resp.ToolCalls, opts.ToolOutputLimit)...)
		state = StateAwaitingModel
	}

	return nil, history, fmt.Errorf("%w (%d)", ErrIterationLimit, maxIterations)
}

// executeToolCalls runs one batch of tool calls concurrently and returns their
// result messages in request order, one per call. Every call produces exactly
// one tool message; failures become error text addressed to the model.
func executeToolCalls(ctx context.Context, registry *tools.Registry, calls []provider.ToolCall, outputLimit int) []provider.ChatMessage {
	results := make([]provider.ChatMessage, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			results[i] = executeToolCall(ctx, registry, call, outputLimit)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func executeToolCall(ctx context.Context, registry *tools.Registry, call provider.ToolCall, outputLimit int) provider.ChatMessage {
	startedAt := time.Now()
	fail := func(format string, args ...any) provider.ChatMessage {
		return provider.ChatMessage{
			Role:       provider.RoleTool,
			ToolCallID: call.ID,
			Content:    "tool execution error: " + fmt.Sprintf(format, args...),
		}
	}

	tool, ok := registry.Lookup(call.Name)
	if !ok {
		logging.Logger().Warn(
			"tool call rejected: unknown tool",
			"tool", call.Name,
			"tool_call_id", call.ID,
			"available_tools", toolNames(registry.ToolDefinitions()),
		)
		return fail("unknown tool %q. Available tools: %s. Use an available tool name exactly.",
			call.Name, toolNames(registry.ToolDefinitions()))
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			logging.Logger().Warn(
				"tool call rejected: invalid arguments",
				"tool", call.Name,
				"tool_call_id", call.ID,
				"arguments", call.Arguments,
				"err", err,
			)
			return fail("invalid tool arguments for %q: %v", call.Name, err)
		}
	}
	if err := tools.ValidateArgs(tool.Schema(), args); err != nil {
		logging.Logger().Warn(
			"tool call rejected: schema mismatch",
			"tool", call.Name,
			"tool_call_id", call.ID,
			"err", err,
		)
		return fail("invalid tool arguments for %q: %v", call.Name, err)
	}

	logging.Logger().Info("tool call start", "tool", call.Name, "tool_call_id", call.ID)

	result, err := tool.Execute(ctx, args)
	if err != nil {
		logging.Logger().Warn(
			"tool call failed",
			"tool", call.Name,
			"tool_call_id", call.ID,
			"duration_ms", time.Since(startedAt).Milliseconds(),
			"err", err,
		)
		return fail("%v", err)
	}

	logging.Logger().Info(
		"tool call complete",
		"tool", call.Name,
		"tool_call_id", call.ID,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)

	bounded := tools.TruncateOutput(result.Output, outputLimit)
	content := bounded.Output
	if bounded.Truncated || result.Truncated {
		content += "\n[output truncated]"
	}
	return provider.ChatMessage{
		Role:       provider.RoleTool,
		ToolCallID: call.ID,
		Content:    content,
	}
}

func toolNames(defs []provider.ToolDefinition) string {
	if len(defs) == 0 {
		return "<none>"
	}
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", ")
}
