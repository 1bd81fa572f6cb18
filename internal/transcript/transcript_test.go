package transcript

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
}

func TestAppendAndMarkdown(t *testing.T) {
	tr := New()
	tr.now = fixedClock()

	assert.Equal(t, "_No messages yet._\n", tr.Markdown())

	u, ok := tr.Append(RoleUser, "write a haiku prompt")
	require.True(t, ok)
	assert.NotEmpty(t, u.ID)
	_, ok = tr.Append(RoleAssistant, "**Final Prompt:**\n\nCompose a haiku\n")
	require.True(t, ok)

	want := "**You** · 09:30\n\nwrite a haiku prompt\n" +
		"\n---\n\n" +
		"**Assistant** · 09:30\n\n**Final Prompt:**\n\nCompose a haiku\n"
	assert.Equal(t, want, tr.Markdown())
}

func TestAppendIgnoresBlank(t *testing.T) {
	tr := New()
	_, ok := tr.Append(RoleUser, "  \n")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Len())
}

func TestEntriesIsACopy(t *testing.T) {
	tr := New()
	tr.Append(RoleSystem, "mode: improve")
	got := tr.Entries()
	got[0].Text = "changed"
	assert.Equal(t, "mode: improve", tr.Entries()[0].Text)

	tr.Reset()
	assert.Equal(t, 0, tr.Len())
}

func TestConcurrentAppend(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(RoleUser, "hi")
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, e := range tr.Entries() {
		assert.False(t, seen[e.ID], "ids are unique")
		seen[e.ID] = true
	}
	assert.Len(t, seen, 20)
}
