package progress

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpath/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Skill{
		{Key: "x", Name: "X", Roadmap: catalog.Roadmap{Steps: []catalog.Step{
			{Title: "first", Checklist: []string{"a", "b"}},
			{Title: "second", Checklist: []string{"c"}},
		}}},
		{Key: "empty", Name: "Empty", Roadmap: catalog.Roadmap{Steps: []catalog.Step{
			{Title: "nothing"},
		}}},
	})
	require.NoError(t, err)
	return c
}

func TestToggleCreatesIntermediateEntries(t *testing.T) {
	p := Toggle(nil, "x", 1, 0, true)

	assert.True(t, p.IsDone("x", 1, 0))
	assert.False(t, p.IsDone("x", 0, 0))
	assert.Len(t, p["x"].Steps, 1)
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	before := Toggle(nil, "x", 0, 0, true)
	after := Toggle(before, "x", 0, 1, true)

	assert.False(t, before.IsDone("x", 0, 1), "input progress must be unchanged")
	assert.True(t, after.IsDone("x", 0, 0))
	assert.True(t, after.IsDone("x", 0, 1))
}

func TestToggleIdempotent(t *testing.T) {
	once := Toggle(nil, "x", 0, 1, true)
	twice := Toggle(once, "x", 0, 1, true)
	assert.Equal(t, once, twice)

	off := Toggle(twice, "x", 0, 1, false)
	offAgain := Toggle(off, "x", 0, 1, false)
	assert.Equal(t, off, offAgain)
}

func TestCompletionExample(t *testing.T) {
	c := testCatalog(t)

	p := Toggle(nil, "x", 0, 0, true)
	p = Toggle(p, "x", 1, 0, true)

	assert.Equal(t, 67, Completion(c, p, "x"))
}

func TestCompletionZeroCases(t *testing.T) {
	c := testCatalog(t)
	p := Toggle(nil, "empty", 0, 0, true)

	assert.Equal(t, 0, Completion(c, p, "empty"), "skill without items")
	assert.Equal(t, 0, Completion(c, p, "missing"), "unknown skill")
	assert.Equal(t, 0, Completion(c, nil, "x"), "no progress")
}

func TestCompletionBounds(t *testing.T) {
	c := testCatalog(t)

	var p Progress
	for step := 0; step < 4; step++ {
		for item := 0; item < 4; item++ {
			p = Toggle(p, "x", step, item, true)
		}
	}
	assert.Equal(t, 100, Completion(c, p, "x"), "out-of-roadmap entries must not push past 100")

	p = Toggle(p, "x", 0, 0, false)
	assert.Equal(t, 67, Completion(c, p, "x"))
}

func TestStepComplete(t *testing.T) {
	c := testCatalog(t)
	skill, _ := c.Lookup("x")

	p := Toggle(nil, "x", 0, 0, true)
	assert.False(t, StepComplete(skill, p, 0))

	p = Toggle(p, "x", 0, 1, true)
	assert.True(t, StepComplete(skill, p, 0))
	assert.False(t, StepComplete(skill, p, 1))
	assert.False(t, StepComplete(skill, p, 7))
}

func TestJSONShape(t *testing.T) {
	p := Toggle(nil, "x", 2, 1, true)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":{"steps":{"2":{"checklist":{"1":true}}}}}`, string(b))

	var back Progress
	require.NoError(t, json.Unmarshal([]byte(`{"x":{"steps":{"0":{"checklist":{"0":true,"1":false}}}}}`), &back))
	assert.True(t, back.IsDone("x", 0, 0))
	assert.False(t, back.IsDone("x", 0, 1))
}

func TestCloneIsDeep(t *testing.T) {
	p := Toggle(nil, "x", 0, 0, true)
	cp := p.Clone()
	cp["x"].Steps[0].Checklist[0] = false

	assert.True(t, p.IsDone("x", 0, 0))
	assert.Nil(t, Progress(nil).Clone())
}
