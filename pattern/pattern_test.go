package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const task = "summarize meeting notes"

func TestExpandEmbedsTaskAndDiffersFromDefault(t *testing.T) {
	def := Default(task)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			got := Expand(task, name)
			assert.Contains(t, got, task)
			assert.NotEqual(t, def, got)
		})
	}
}

func TestExpandPatternsAreDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, name := range Names() {
		got := Expand(task, name)
		if other, ok := seen[got]; ok {
			t.Fatalf("%s and %s expand identically", name, other)
		}
		seen[got] = name
	}
}

func TestExpandFallback(t *testing.T) {
	def := Default(task)
	assert.Equal(t, "Given the following task, create a useful prompt: "+task, def)
	assert.Equal(t, def, Expand(task, ""))
	assert.Equal(t, def, Expand(task, "unknown-pattern"))
	assert.Equal(t, def, Expand(task, None))
	assert.Equal(t, def, Expand(task, "   "))
}

func TestExpandNormalizesName(t *testing.T) {
	assert.Equal(t, Expand(task, "persona"), Expand(task, " Persona "))
	assert.Equal(t, Expand(task, "n-shot"), Expand(task, "N-SHOT\t"))
}

func TestPersonaMentionsPersona(t *testing.T) {
	got := Expand(task, Persona)
	assert.Contains(t, strings.ToLower(got), "persona")
}

func TestFlippedRepeatsTask(t *testing.T) {
	got := Expand(task, Flipped)
	assert.Equal(t, 2, strings.Count(got, task))
}

func TestTaskIsNotInterpreted(t *testing.T) {
	raw := "render {{.Task}} and <b>bold</b> & more"
	got := Expand(raw, Meta)
	assert.Contains(t, got, raw)
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("  DIRECTIONAL ")
	require.True(t, ok)
	assert.Equal(t, Directional, p.Name)
	assert.NotEmpty(t, p.Description)

	_, ok = Lookup("none")
	assert.False(t, ok)
}

func TestNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"persona", "flipped", "n-shot", "directional", "template", "meta"}, Names())
	assert.Len(t, All(), len(Names()))
}
