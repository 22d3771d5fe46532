// Package llm defines the conversational substrate shared by every model
// backend: the message history of one generation call and the backend
// turn contract.
package llm

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// History is the ordered message log of a single generation call. It is
// append-only and not safe for concurrent use; each call owns its own.
type History struct {
	messages []Message
}

func NewHistory() *History {
	return &History{}
}

// Append adds one message. Messages with an empty role are dropped.
func (h *History) Append(role Role, content string) {
	if role == "" {
		return
	}
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the full ordered log, for backends that
// resend the whole context on every turn.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	return len(h.messages)
}

// Backend runs one conversational turn against a model provider. RunTurn
// always returns the complete assistant text for the turn, fully drained
// and concatenated if the provider streamed it. Backends that resend the
// full history per request append both the prompt and the reply to the
// history themselves; session-holding backends keep the context on the
// provider side instead.
type Backend interface {
	RunTurn(ctx context.Context, history *History, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// StructuredTurner is implemented by backends that can constrain a turn
// to a JSON object response. The engine uses it for the classification
// turn only.
type StructuredTurner interface {
	RunTurnStructured(ctx context.Context, history *History, prompt string) (string, error)
}
