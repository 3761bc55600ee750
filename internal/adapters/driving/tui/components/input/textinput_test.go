package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryInput(t *testing.T) {
	q := NewQueryInput(nil)

	require.NotNil(t, q)
	assert.True(t, q.Focused())
	assert.Empty(t, q.Value())
	assert.Equal(t, 60, q.Width())
}

func TestQueryInput_Init(t *testing.T) {
	assert.NotNil(t, NewQueryInput(nil).Init())
}

func TestQueryInput_Typing(t *testing.T) {
	q := NewQueryInput(nil)

	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bmw")})

	assert.Equal(t, "bmw", q.Value())
}

func TestQueryInput_SetValueAndReset(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetValue("electric cars")
	assert.Equal(t, "electric cars", q.Value())

	q.Reset()
	assert.Empty(t, q.Value())
}

func TestQueryInput_View(t *testing.T) {
	q := NewQueryInput(nil)

	view := q.View()

	assert.Contains(t, view, "Ask:")
}

func TestQueryInput_SetWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantInput int
	}{
		{"wide", 100, 88},
		{"narrow clamps", 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueryInput(nil)
			q.SetWidth(tt.width)

			assert.Equal(t, tt.width, q.Width())
			assert.Equal(t, tt.wantInput, q.textinput.Width)
		})
	}
}
