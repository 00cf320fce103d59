package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-bootstrap/internal/installer"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/prompt"
)

func appIDs(apps []model.Application) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.EffectiveID()
	}
	return out
}

func TestChooseApplications(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		yes     bool
		server  bool
		prompt  *scripted
		want    []string
		warn    string
		wantErr string
	}{
		{name: "ids with an unknown one", ids: []string{"fish-shell", "nope"}, prompt: &scripted{},
			want: []string{"fish-shell"}, warn: "Unknown or unsupported application: nope"},
		{name: "server filter hides desktop apps", ids: []string{"alacritty", "zsh-shell"}, server: true, prompt: &scripted{},
			want: []string{"zsh-shell"}, warn: "Unknown or unsupported application: alacritty"},
		{name: "yes takes everything", yes: true, prompt: &scripted{},
			want: []string{"alacritty", "fish-shell", "zsh-shell"}},
		{name: "picked interactively", prompt: &scripted{picked: []string{"zsh-shell"}},
			want: []string{"zsh-shell"}},
		{name: "no terminal", prompt: &scripted{pickErr: prompt.ErrNotInteractive},
			wantErr: "no terminal: pass application ids or --yes"},
		{name: "prompt failure", prompt: &scripted{pickErr: errors.New("interrupted")},
			wantErr: "interrupted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testEnv(t, tt.prompt)
			assumeYes, serverOnly = tt.yes, tt.server

			apps, err := chooseApplications(tt.ids, "Applications to install")
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, appIDs(apps))
			if tt.warn != "" {
				assert.Contains(t, out.String(), tt.warn)
			}
			if len(tt.ids) > 0 || tt.yes {
				assert.Empty(t, tt.prompt.asked)
			}
		})
	}
}

func TestChooseApplicationsNothingForThisSystem(t *testing.T) {
	testEnv(t, &scripted{})
	appCategories = categoryList{model.Fonts}
	_, err := chooseApplications(nil, "Applications to install")
	assert.EqualError(t, err, "no applications match this system and filters")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []installer.Outcome
		wantErr  bool
	}{
		{"all installed", []installer.Outcome{installer.Installed, installer.AlreadyInstalled}, false},
		{"resolution failure alone", []installer.Outcome{installer.Installed, installer.ResolutionFailure}, false},
		{"skipped", []installer.Outcome{installer.Skipped}, false},
		{"execution failure", []installer.Outcome{installer.Installed, installer.ExecutionFailure}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testEnv(t, &scripted{})
			var r installer.Report
			for i, o := range tt.outcomes {
				r.Results = append(r.Results, installer.Result{App: string(rune('a' + i)), Outcome: o})
			}

			err := summarize("install", r)
			if tt.wantErr {
				assert.EqualError(t, err, "install failed for 1 application(s)")
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), "install: ")
		})
	}
}
