package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{name: "ready without items", state: StateReady, want: "Ready"},
		{name: "ready with items", state: StateReady, count: 3, want: "3 documents"},
		{name: "ready with message", state: StateReady, message: "Deleted document 4", want: "Deleted document 4"},
		{name: "loading", state: StateLoading, want: "Loading..."},
		{name: "loading with message", state: StateLoading, message: "Opening doc", want: "Opening doc"},
		{name: "error", state: StateError, want: "Error"},
		{name: "error with message", state: StateError, message: "not found", want: "Error: not found"},
		{name: "help", state: StateHelp, want: "Help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetCount(tt.count, "documents")

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)

	assert.Contains(t, bar.View(), "enter: open")

	bar.SetHints(km.DocumentsHelp())
	view := bar.View()
	assert.Contains(t, view, "x: delete")
	assert.Contains(t, view, "r: reload")

	bar.SetHints(nil)
	assert.NotContains(t, bar.View(), "x: delete")
}

func TestBar_SetCount_KeepsNounWhenEmpty(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetCount(2, "sentences")
	bar.SetCount(5, "")

	assert.Equal(t, 5, bar.Count())
	assert.Contains(t, bar.View(), "5 sentences")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCount(7, "tokens")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Count())
}

func TestBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(nil)

	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}
