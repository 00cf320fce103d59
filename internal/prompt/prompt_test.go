package prompt

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withForm(t *testing.T, fn func(*huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })
	runFormFunc = fn
}

func TestHuhWithoutTerminal(t *testing.T) {
	withForm(t, func(*huh.Form) error {
		t.Fatal("no form should run without a terminal")
		return nil
	})
	h := &Huh{isTerminal: func() bool { return false }}

	assert.True(t, h.Confirm("go?", true))
	assert.False(t, h.Confirm("go?", false))

	_, err := h.Input("name", "x")
	assert.ErrorIs(t, err, ErrNotInteractive)
	_, err = h.Select("pick", []string{"a"}, "a")
	assert.ErrorIs(t, err, ErrNotInteractive)
	_, err = h.MultiSelect("pick", []string{"a"})
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestHuhRunsForm(t *testing.T) {
	calls := 0
	withForm(t, func(*huh.Form) error {
		calls++
		return nil
	})
	h := &Huh{isTerminal: func() bool { return true }}

	assert.True(t, h.Confirm("go?", true))
	got, err := h.Input("name", "prefilled")
	require.NoError(t, err)
	assert.Equal(t, "prefilled", got)
	assert.Equal(t, 2, calls)
}

func TestHuhAbortFallsBackToDefault(t *testing.T) {
	withForm(t, func(*huh.Form) error { return huh.ErrUserAborted })
	h := &Huh{isTerminal: func() bool { return true }}

	assert.False(t, h.Confirm("go?", false))
	_, err := h.Input("name", "")
	assert.True(t, errors.Is(err, huh.ErrUserAborted))
}

func TestAuto(t *testing.T) {
	var p Prompter = Auto{}
	assert.True(t, p.Confirm("anything", false))

	v, err := p.Input("user", "root")
	require.NoError(t, err)
	assert.Equal(t, "root", v)

	v, err = p.Select("pick", []string{"a", "b"}, "")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}
