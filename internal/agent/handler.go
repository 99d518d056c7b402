package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	runtimeapi "github.com/tablemind-ai/tablemind/internal/runtime"
	"github.com/tablemind-ai/tablemind/internal/session"
)

// Handler adapts a Session to the runtime Handler interface, persisting the
// conversation after each successful turn when a store is attached.
type Handler struct {
	sess  *Session
	store *session.Store

	// persisted counts the session messages already on disk, so each turn
	// appends only its delta instead of rewriting the whole file.
	persisted int
}

var (
	_ runtimeapi.Handler  = (*Handler)(nil)
	_ runtimeapi.Resetter = (*Handler)(nil)
)

// NewHandler creates a runtime handler for one session. A nil store keeps the
// conversation in memory only. A session seeded from the store is assumed to
// match the file's current contents.
func NewHandler(sess *Session, store *session.Store) (*Handler, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	return &Handler{sess: sess, store: store, persisted: len(sess.History())}, nil
}

// HandleMessage processes one inbound message and writes the assistant response.
func (h *Handler) HandleMessage(ctx context.Context, w runtimeapi.ResponseWriter, msg *runtimeapi.Message) error {
	if w == nil {
		return errors.New("response writer is required")
	}
	if msg == nil {
		return errors.New("message is required")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	outcome, err := h.sess.SubmitTurn(ctx, msg.Text)
	if err != nil {
		// Runtime/infrastructure errors propagate so transports own
		// retry/backoff/exit behavior.
		return err
	}

	if h.store != nil && len(outcome.Messages) > h.persisted {
		if err := h.store.Append(ctx, outcome.Messages[h.persisted:]); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}
	h.persisted = len(outcome.Messages)
	return w.WriteMessage(ctx, outcome.Answer)
}

// Reset clears the session and its persisted history.
func (h *Handler) Reset(ctx context.Context) error {
	h.sess.Reset()
	h.persisted = 0
	if h.store != nil {
		return h.store.Reset(ctx)
	}
	return nil
}
