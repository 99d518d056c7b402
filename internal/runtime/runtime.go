// Package runtime defines the seam between channel transports and the agent:
// transports deliver Messages to a Handler and carry responses back through a
// ResponseWriter.
package runtime

import "context"

// Message is an inbound message delivered by a channel transport.
type Message struct {
	Text string
}

// ResponseWriter sends handler responses back to the active channel transport.
type ResponseWriter interface {
	WriteMessage(ctx context.Context, text string) error
}

// Handler processes inbound messages and writes responses.
type Handler interface {
	HandleMessage(ctx context.Context, w ResponseWriter, msg *Message) error
}

// Resetter is an optional Handler capability: transports that expose a reset
// command call it to clear conversation state.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Listener receives channel input and dispatches it to a Handler.
type Listener interface {
	Listen(ctx context.Context, handler Handler) error
}
