// Package interview provides session-scoped conversation memory management:
// session creation from an uploaded document, bounded dialogue history, and
// orchestration of question/answer exchanges against a completion provider.
package interview

import "time"

// Role identifies the author of a conversation turn
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a conversation transcript
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationState is the full per-session state owned by the registry.
// Messages[0] is always the system turn synthesized from SourceDocument.
type ConversationState struct {
	SessionID      string    `json:"session_id"`
	Messages       []Turn    `json:"messages"`
	SourceDocument string    `json:"source_document"`
	LastActiveAt   time.Time `json:"last_active_at"`
}

// Clone returns a deep copy of the state. The registry hands out and accepts
// copies so callers can never alias its internal message slices.
func (cs ConversationState) Clone() ConversationState {
	messages := make([]Turn, len(cs.Messages))
	copy(messages, cs.Messages)
	cs.Messages = messages
	return cs
}
