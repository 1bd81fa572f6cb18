package promptcraft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestApplyLeavesInputUntouched(t *testing.T) {
	in := NewState(Request{Mode: ModeGenerate, TaskDescription: "t"})
	before := in

	out := in.Apply(Patch{Prompt: ptr("p"), Score: ptr(0.4), IssueFound: ptr(true)})

	if diff := cmp.Diff(before, in); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	assert.Equal(t, "p", out.Prompt)
	assert.True(t, out.Evaluated)
	assert.True(t, out.IssueFound)
	assert.Equal(t, ModeGenerate, out.Mode)
}

func TestApplyEmptyPatch(t *testing.T) {
	in := NewState(Request{Mode: ModeImprove, Prompt: "p", Context: "c"})
	assert.Equal(t, in, in.Apply(Patch{}))
}

func TestStatePattern(t *testing.T) {
	assert.Equal(t, "", State{SelectedPattern: "meta"}.Pattern())
	assert.Equal(t, "meta", State{UsePattern: true, SelectedPattern: "meta"}.Pattern())
}

func TestOrNone(t *testing.T) {
	assert.Equal(t, "<None>", OrNone(""))
	assert.Equal(t, "<None>", OrNone(" \n"))
	assert.Equal(t, "x", OrNone("x"))
}
