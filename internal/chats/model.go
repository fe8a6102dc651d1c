package chats

import "time"

// Role identifies the author of a turn. The set is closed: only user and
// assistant turns exist.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the permitted values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

const (
	// maxStoredTurns is the retention cap: a conversation that grows past
	// it is truncated down to retainedTurns, dropping the oldest.
	maxStoredTurns = 50
	retainedTurns  = 40

	// historyWindow is how many stored turns precede the new user message
	// in the assembled context.
	historyWindow = 5
)

// Turn is one message in a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is the ordered message log for one (document, owner) pair. It is
// read, mutated in memory, and written back whole; concurrent sends to the
// same conversation resolve as last-write-wins.
type Chat struct {
	ID         string
	DocumentID string
	UserID     string
	Turns      []Turn
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Append adds a turn at the end of the log.
func (ch *Chat) Append(t Turn) {
	ch.Turns = append(ch.Turns, t)
}

// RecentHistory returns up to n turns immediately preceding the last one,
// in original order. The last turn is excluded: it is the message being
// answered, added to the context separately.
func (ch *Chat) RecentHistory(n int) []Turn {
	if len(ch.Turns) <= 1 || n <= 0 {
		return nil
	}
	end := len(ch.Turns) - 1
	start := end - n
	if start < 0 {
		start = 0
	}
	return ch.Turns[start:end]
}

// EnforceRetentionCap truncates the log to the most recent retainedTurns
// once it exceeds maxStoredTurns. Relative order is preserved.
func (ch *Chat) EnforceRetentionCap() {
	if len(ch.Turns) <= maxStoredTurns {
		return
	}
	kept := ch.Turns[len(ch.Turns)-retainedTurns:]
	ch.Turns = append([]Turn(nil), kept...)
}
