// Package prompt asks the user questions through charmbracelet/huh forms.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by questions that have no sensible default when stdin or
// stdout is not a terminal.
var ErrNotInteractive = errors.New("an interactive terminal is required")

// Prompter is everything the CLI ever asks.
type Prompter interface {
	Confirm(question string, def bool) bool
	Input(title, def string) (string, error)
	Select(title string, options []string, def string) (string, error)
	MultiSelect(title string, options []string) ([]string, error)
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// Huh renders questions as huh forms.
type Huh struct {
	isTerminal func() bool
}

// NewHuh returns a Prompter that uses the real terminal.
func NewHuh() *Huh {
	return &Huh{isTerminal: IsInteractive}
}

func (h *Huh) interactive() bool {
	if h.isTerminal == nil {
		return IsInteractive()
	}
	return h.isTerminal()
}

func (h *Huh) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field))
	return runFormFunc(form)
}

// Confirm asks a yes/no question. Without a terminal, or when the user aborts, def is returned.
func (h *Huh) Confirm(question string, def bool) bool {
	if !h.interactive() {
		return def
	}
	value := def
	if err := h.run(huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&value)); err != nil {
		return def
	}
	return value
}

// Input asks for free text, prefilled with def.
func (h *Huh) Input(title, def string) (string, error) {
	if !h.interactive() {
		return "", ErrNotInteractive
	}
	value := def
	if err := h.run(huh.NewInput().Title(title).Value(&value)); err != nil {
		return "", err
	}
	return value, nil
}

// Select asks for one of options.
func (h *Huh) Select(title string, options []string, def string) (string, error) {
	if !h.interactive() {
		return "", ErrNotInteractive
	}
	value := def
	if err := h.run(huh.NewSelect[string]().Title(title).Options(huh.NewOptions(options...)...).Value(&value)); err != nil {
		return "", err
	}
	return value, nil
}

// MultiSelect asks for any subset of options.
func (h *Huh) MultiSelect(title string, options []string) ([]string, error) {
	if !h.interactive() {
		return nil, ErrNotInteractive
	}
	var selected []string
	if err := h.run(huh.NewMultiSelect[string]().Title(title).Options(huh.NewOptions(options...)...).Value(&selected)); err != nil {
		return nil, err
	}
	return selected, nil
}

// Auto answers every question without asking: confirmations are accepted and the other
// questions take their default.
type Auto struct{}

func (Auto) Confirm(string, bool) bool { return true }

func (Auto) Input(_ string, def string) (string, error) {
	return def, nil
}

func (Auto) Select(_ string, options []string, def string) (string, error) {
	if def == "" && len(options) > 0 {
		return options[0], nil
	}
	return def, nil
}

func (Auto) MultiSelect(string, []string) ([]string, error) {
	return nil, nil
}
