package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/config"
	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/prompt"
	"machine-bootstrap/internal/system"
)

// scripted answers every prompt from fixed values and records the questions.
type scripted struct {
	confirm bool
	choice  string // empty means no terminal
	picked  []string
	pickErr error
	asked   []string
}

func (s *scripted) Confirm(q string, _ bool) bool {
	s.asked = append(s.asked, q)
	return s.confirm
}

func (s *scripted) Input(title, def string) (string, error) {
	s.asked = append(s.asked, title)
	return def, nil
}

func (s *scripted) Select(title string, _ []string, _ string) (string, error) {
	s.asked = append(s.asked, title)
	if s.choice == "" {
		return "", prompt.ErrNotInteractive
	}
	return s.choice, nil
}

func (s *scripted) MultiSelect(title string, _ []string) ([]string, error) {
	s.asked = append(s.asked, title)
	return s.picked, s.pickErr
}

// testEnv points env at a fresh settings directory on Ubuntu and restores every global
// flag afterwards. The returned buffer collects all log output.
func testEnv(t *testing.T, p prompt.Prompter) *bytes.Buffer {
	t.Helper()
	paths := config.Paths{Dir: t.TempDir()}
	var out bytes.Buffer

	prevEnv, prevDry, prevYes := env, dryRun, assumeYes
	prevKind, prevServer, prevCategories, prevFields := kindFlag, serverOnly, appCategories, vpsFields
	t.Cleanup(func() {
		env, dryRun, assumeYes = prevEnv, prevDry, prevYes
		kindFlag, serverOnly, appCategories, vpsFields = prevKind, prevServer, prevCategories, prevFields
	})

	env = &environment{
		Paths:        paths,
		SettingsFile: paths.SettingsFile(),
		Settings:     paths.Defaults(),
		Log:          logger.New(logger.Options{Out: &out, Err: &out}),
		System:       system.For("Ubuntu"),
		Prompt:       p,
	}
	return &out
}

func TestCategoryFlag(t *testing.T) {
	var c categoryList
	require.NoError(t, c.Set("shells, terminalemulators"))
	require.NoError(t, c.Set("Fonts"))
	assert.Equal(t, categoryList{model.Shells, model.TerminalEmulators, model.Fonts}, c)
	assert.Equal(t, "shells,terminalemulators,fonts", c.String())

	assert.ErrorContains(t, c.Set("games"), `unknown category "games"`)
}

func TestScriptBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.sh")
	require.NoError(t, os.WriteFile(path, []byte("apt update\n"), 0644))

	body, err := scriptBody("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "apt update\n", body)

	body, err = scriptBody(path)
	require.NoError(t, err)
	assert.Equal(t, "apt update\n", body)

	body, err = scriptBody("uptime")
	require.NoError(t, err)
	assert.Equal(t, "uptime", body)

	_, err = scriptBody("@" + filepath.Join(t.TempDir(), "missing.sh"))
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"app", "list", "config", "vps", "font", "pm", "doctor", "logs"} {
		assert.True(t, names[want], want)
	}
}
