package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tablemind-ai/tablemind/internal/provider"
	"github.com/tablemind-ai/tablemind/internal/tools"
)

// SessionConfig carries per-session settings resolved from configuration.
type SessionConfig struct {
	SystemPrompt    string
	MaxIterations   int
	MaxTokens       int
	ToolOutputLimit int
	RequestTimeout  time.Duration
	// ProviderName labels backend errors; informational only.
	ProviderName string
	// History seeds the session with a previously persisted conversation.
	History []provider.ChatMessage
}

// Session is one conversation: a provider, a tool registry, and accumulated
// history. Sessions are independent; concurrent sessions never share state.
type Session struct {
	ID string

	provider provider.Provider
	registry *tools.Registry
	cfg      SessionConfig

	mu      sync.Mutex
	history []provider.ChatMessage
}

// Outcome is the result of one completed turn.
type Outcome struct {
	Answer   string
	Messages []provider.ChatMessage
	Usage    provider.TokenUsage
}

// NewSession creates a conversation-scoped session.
func NewSession(p provider.Provider, registry *tools.Registry, cfg SessionConfig) (*Session, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return &Session{
		ID:       uuid.NewString(),
		provider: p,
		registry: registry,
		cfg:      cfg,
		history:  append([]provider.ChatMessage(nil), cfg.History...),
	}, nil
}

// SubmitTurn runs one user turn through the agent loop. History advances only
// on success; a failed turn leaves the session where it was so the user can
// retry.
func (s *Session) SubmitTurn(ctx context.Context, text string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	messages := append(append([]provider.ChatMessage(nil), s.history...), provider.ChatMessage{
		Role:    provider.RoleUser,
		Content: text,
	})

	resp, history, err := Run(ctx, s.provider, s.registry, s.cfg.SystemPrompt, messages, RunOptions{
		MaxIterations:   s.cfg.MaxIterations,
		MaxTokens:       s.cfg.MaxTokens,
		ToolOutputLimit: s.cfg.ToolOutputLimit,
		ProviderName:    s.cfg.ProviderName,
	})
	if err != nil {
		return nil, err
	}

	s.history = history
	return &Outcome{
		Answer:   resp.Content,
		Messages: append([]provider.ChatMessage(nil), history...),
		Usage:    resp.Usage,
	}, nil
}

// History returns a copy of the session's conversation so far.
func (s *Session) History() []provider.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]provider.ChatMessage(nil), s.history...)
}

// Reset clears the conversation while keeping the session's identity.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
