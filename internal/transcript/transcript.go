// Package transcript keeps the in-memory conversation shown by the chat
// front end.
package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Entry is one message of the conversation.
type Entry struct {
	ID   string
	Role Role
	Text string
	Time time.Time
}

// Transcript is an append-only list of entries. It is safe for concurrent
// use; the chat model appends from command results while rendering.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds a message and returns the stored entry. Blank text is ignored
// and reported with ok=false.
func (t *Transcript) Append(role Role, text string) (e Entry, ok bool) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	e = Entry{ID: uuid.NewString(), Role: role, Text: text, Time: t.now()}
	t.entries = append(t.entries, e)
	return e, true
}

// Entries returns a copy of the entries in order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Reset drops all entries.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Markdown renders the conversation, one heading per message.
func (t *Transcript) Markdown() string {
	entries := t.Entries()
	if len(entries) == 0 {
		return "_No messages yet._\n"
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "**%s** · %s\n\n", heading(e.Role), e.Time.Format("15:04"))
		b.WriteString(strings.TrimRight(e.Text, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func heading(r Role) string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	}
	return string(r)
}
