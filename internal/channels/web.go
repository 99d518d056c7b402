package channels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tablemind-ai/tablemind/internal/logging"
	"github.com/tablemind-ai/tablemind/internal/runtime"
)

const webShutdownTimeout = 5 * time.Second

var _ runtime.Listener = (*WebListener)(nil)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the wire format exchanged with the browser.
type WSMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// WebListener serves the browser chat UI: a websocket chat endpoint, the
// chart output directory, and a health probe.
type WebListener struct {
	// Addr is the listen address, for example ":8000".
	Addr string
	// OutputDir is served read-only under /outputs/ so chart links resolve.
	OutputDir string
	// NewHandler, when set, builds an isolated handler per websocket
	// connection. Otherwise all connections share the Listen handler.
	NewHandler func() (runtime.Handler, error)
}

// Listen serves HTTP until the context is canceled.
func (l *WebListener) Listen(ctx context.Context, handler runtime.Handler) error {
	if handler == nil && l.NewHandler == nil {
		return fmt.Errorf("handler is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleIndex)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		l.handleWebSocket(ctx, w, r, handler)
	})
	mux.HandleFunc("/health", handleHealth)
	if l.OutputDir != "" {
		mux.Handle("/outputs/", http.StripPrefix("/outputs/", http.FileServer(http.Dir(l.OutputDir))))
	}

	server := &http.Server{
		Addr:    l.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger().Info("web channel listening", "addr", l.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown web server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (l *WebListener) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// wsWriter sends handler responses as rendered HTML over one connection.
// gorilla connections allow one concurrent writer, hence the mutex.
type wsWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsWriter) WriteMessage(_ context.Context, text string) error {
	return w.send(WSMessage{Type: "response", Content: renderMarkdown(text)})
}

func (w *wsWriter) send(msg WSMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(msg)
}

func (l *WebListener) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request, shared runtime.Handler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	handler := shared
	if l.NewHandler != nil {
		handler, err = l.NewHandler()
		if err != nil {
			logging.Logger().Error("websocket handler setup failed", "err", err)
			return
		}
	}

	writer := &wsWriter{conn: conn}
	logging.Logger().Info("websocket client connected", "remote", r.RemoteAddr)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Logger().Warn("websocket read error", "err", err)
			}
			return
		}

		switch msg.Type {
		case "message":
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			_ = writer.send(WSMessage{Type: "status", Content: "Processing your request..."})
			if err := handler.HandleMessage(ctx, writer, &runtime.Message{Text: msg.Content}); err != nil {
				logging.Logger().Warn("websocket turn failed", "err", err)
				_ = writer.send(WSMessage{Type: "error", Content: fmt.Sprintf("Error processing request: %v", err)})
			}
		case "ping":
			_ = writer.send(WSMessage{Type: "pong"})
		}
	}
}

// renderMarkdown converts an assistant answer to HTML for the chat UI.
func renderMarkdown(input string) string {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf strings.Builder
	if err := md.Convert([]byte(input), &buf); err != nil {
		return input
	}
	return buf.String()
}
