package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tablemind-ai/tablemind/internal/provider"
	"github.com/tablemind-ai/tablemind/internal/runtime"
	"github.com/tablemind-ai/tablemind/internal/session"
	"github.com/tablemind-ai/tablemind/internal/tools"
)

type captureWriter struct {
	messages []string
}

func (w *captureWriter) WriteMessage(_ context.Context, text string) error {
	w.messages = append(w.messages, text)
	return nil
}

func newTestHandler(t *testing.T, responses []*provider.ChatResponse, store *session.Store, history []provider.ChatMessage) *Handler {
	t.Helper()

	registry := tools.NewRegistry()
	if err := registry.Register(fakeTool{name: "profile_table", out: "ok"}); err != nil {
		t.Fatalf("register tool: %v", err)
	}
	sess, err := NewSession(&scriptProvider{responses: responses}, registry, SessionConfig{
		MaxIterations: 5,
		History:       history,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	handler, err := NewHandler(sess, store)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func TestHandler_AppendsEachTurnOnce(t *testing.T) {
	ctx := context.Background()
	store := session.New(filepath.Join(t.TempDir(), "default.jsonl"))
	handler := newTestHandler(t, []*provider.ChatResponse{
		{Content: "4 rows"},
		{Content: "2 columns"},
	}, store, nil)

	writer := &captureWriter{}
	if err := handler.HandleMessage(ctx, writer, &runtime.Message{Text: "how many rows?"}); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if err := handler.HandleMessage(ctx, writer, &runtime.Message{Text: "how many columns?"}); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(persisted) != 4 {
		t.Fatalf("expected 4 persisted messages, got %d", len(persisted))
	}
	var firstTurnCount int
	for _, msg := range persisted {
		if msg.Content == "how many rows?" {
			firstTurnCount++
		}
	}
	if firstTurnCount != 1 {
		t.Fatalf("expected first turn persisted exactly once, found %d copies", firstTurnCount)
	}
}

func TestHandler_SeededHistoryIsNotRewritten(t *testing.T) {
	ctx := context.Background()
	store := session.New(filepath.Join(t.TempDir(), "default.jsonl"))
	seeded := []provider.ChatMessage{
		{Role: provider.RoleUser, Content: "profile sales.csv"},
		{Role: provider.RoleAssistant, Content: "12 rows, 3 columns"},
	}
	if err := store.Append(ctx, seeded); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	handler := newTestHandler(t, []*provider.ChatResponse{{Content: "yes"}}, store, seeded)
	if err := handler.HandleMessage(ctx, &captureWriter{}, &runtime.Message{Text: "any missing values?"}); err != nil {
		t.Fatalf("turn: %v", err)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(persisted) != 4 {
		t.Fatalf("expected seeded history plus one turn (4 messages), got %d", len(persisted))
	}
	if persisted[0].Content != "profile sales.csv" || persisted[3].Content != "yes" {
		t.Fatalf("unexpected persisted order: %+v", persisted)
	}
}

func TestHandler_ResetClearsSessionAndFile(t *testing.T) {
	ctx := context.Background()
	store := session.New(filepath.Join(t.TempDir(), "default.jsonl"))
	handler := newTestHandler(t, []*provider.ChatResponse{
		{Content: "before reset"},
		{Content: "after reset"},
	}, store, nil)

	if err := handler.HandleMessage(ctx, &captureWriter{}, &runtime.Message{Text: "first"}); err != nil {
		t.Fatalf("turn: %v", err)
	}
	if err := handler.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(persisted) != 0 {
		t.Fatalf("expected empty session file after reset, got %d messages", len(persisted))
	}

	// The next turn starts a fresh file.
	if err := handler.HandleMessage(ctx, &captureWriter{}, &runtime.Message{Text: "second"}); err != nil {
		t.Fatalf("turn after reset: %v", err)
	}
	persisted, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(persisted) != 2 || persisted[0].Content != "second" {
		t.Fatalf("expected fresh history after reset, got %+v", persisted)
	}
}
