package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"machine-bootstrap/internal/messages"
	"machine-bootstrap/internal/model"
	"machine-bootstrap/internal/remote"
	"machine-bootstrap/internal/validate"
	"machine-bootstrap/internal/vps"
)

// ErrInvalidVPS is returned when an added or updated entry breaks the VPS file rules.
var ErrInvalidVPS = errors.New("invalid VPS entry, not saved")

// vpsFields backs the add and update flags.
var vpsFields model.VPSEntry

const (
	choiceCancel    = "Cancel"
	choiceOverwrite = "Overwrite"
	choiceNewID     = "Use different id"
)

func loadVPS() (*vps.Store, error) {
	return vps.Load(env.Settings.VPSFile, env.Log, dryRun)
}

func saveVPS(s *vps.Store, e model.VPSEntry) error {
	if dryRun {
		env.Log.Info("[INFO] [Dry Run] Would save VPS %s to %s\n", e.ID, s.Path)
		return nil
	}
	if err := s.Save(); err != nil {
		return err
	}
	env.Log.Info("[INFO] "+messages.VPSSavedFmt+"\n", e.ID, s.Path)
	return nil
}

var vpsCmd = &cobra.Command{
	Use:   "vps",
	Short: "Manage VPS connection profiles",
}

var vpsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a VPS profile, asking for anything not given as a flag",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadVPS()
		if err != nil {
			return err
		}
		e := vpsFields
		if e.Host == "" || strings.TrimSpace(e.Name) == "" {
			if e, err = askVPS(e); err != nil {
				return err
			}
		}
		return addVPS(store, e)
	},
}

// addVPS checks e, adds it to store and saves. A taken id asks whether to overwrite the
// existing entry, pick a free id or give up.
func addVPS(store *vps.Store, e model.VPSEntry) error {
	if err := checkVPS(len(store.Entries), e); err != nil {
		return err
	}
	added, err := store.Add(e, false)
	if errors.Is(err, vps.ErrDuplicateID) {
		choice, perr := env.Prompt.Select(fmt.Sprintf(messages.VPSDuplicateIDFmt, e.ID),
			[]string{choiceCancel, choiceOverwrite, choiceNewID}, choiceCancel)
		if perr != nil {
			return err
		}
		switch choice {
		case choiceOverwrite:
			added, err = store.Add(e, true)
		case choiceNewID:
			e.ID = vps.UniqueID(store.IDs(), e.ID)
			added, err = store.Add(e, false)
		default:
			env.Log.Warn("[WARN] Not adding %s\n", e.ID)
			return nil
		}
	}
	if err != nil {
		return err
	}
	return saveVPS(store, added)
}

// checkVPS logs every rule e breaks and refuses it when there is any.
func checkVPS(i int, e model.VPSEntry) error {
	violations := validate.VPSEntry(i, e)
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for j, v := range violations {
		env.Log.Error("[ERROR] %s\n", v)
		msgs[j] = v.Message
	}
	return fmt.Errorf("%w: %s", ErrInvalidVPS, strings.Join(msgs, "; "))
}

// askVPS fills the blanks of e interactively.
func askVPS(e model.VPSEntry) (model.VPSEntry, error) {
	questions := []struct {
		title string
		field *string
	}{
		{"Name", &e.Name},
		{"Host", &e.Host},
		{"User", &e.User},
		{"Private key (optional)", &e.PrivateKey},
		{"Post-connect script (optional)", &e.PostConnectScript},
	}
	for _, q := range questions {
		if *q.field != "" {
			continue
		}
		answer, err := env.Prompt.Input(q.title, "")
		if err != nil {
			return e, fmt.Errorf("cannot ask for %s: %w", strings.ToLower(q.title), err)
		}
		*q.field = strings.TrimSpace(answer)
	}
	if e.Port == "" {
		answer, err := env.Prompt.Input("Port", fmt.Sprint(model.DefaultSSHPort))
		if err != nil {
			return e, err
		}
		e.Port = model.Port(strings.TrimSpace(answer))
	}
	return e, nil
}

var vpsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List VPS profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadVPS()
		if err != nil {
			return err
		}
		if len(store.Entries) == 0 {
			env.Log.Info("[INFO] No VPS profiles in %s\n", store.Path)
			return nil
		}
		t := newTable("ID", "Name", "Address", "User", "Key", "Script")
		for _, e := range store.Entries {
			t.Row(e.ID, e.Name, e.Address(), e.EffectiveUser(), e.PrivateKey, e.PostConnectScript)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var vpsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a VPS profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadVPS()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		updated, err := store.Update(args[0], func(e *model.VPSEntry) {
			if flags.Changed("id") {
				e.ID = vpsFields.ID
			}
			if flags.Changed("name") {
				e.Name = vpsFields.Name
			}
			if flags.Changed("host") {
				e.Host = vpsFields.Host
			}
			if flags.Changed("user") {
				e.User = vpsFields.User
			}
			if flags.Changed("port") {
				e.Port = vpsFields.Port
			}
			if flags.Changed("key") {
				e.PrivateKey = vpsFields.PrivateKey
			}
			if flags.Changed("script") {
				e.PostConnectScript = vpsFields.PostConnectScript
			}
		})
		if err != nil {
			return err
		}
		if err := checkVPS(store.Find(updated.ID), updated); err != nil {
			return err
		}
		return saveVPS(store, updated)
	},
}

var vpsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a VPS profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadVPS()
		if err != nil {
			return err
		}
		id, err := pickVPS(store, args)
		if err != nil {
			return err
		}
		if !env.Prompt.Confirm(fmt.Sprintf("Delete VPS %s?", id), false) {
			return nil
		}
		removed, err := store.Delete(id)
		if err != nil {
			return err
		}
		if dryRun {
			env.Log.Info("[INFO] [Dry Run] Would delete VPS %s\n", removed.ID)
			return nil
		}
		if err := store.Save(); err != nil {
			return err
		}
		env.Log.Info("[INFO] "+messages.VPSDeletedFmt+"\n", removed.ID)
		return nil
	},
}

// pickVPS returns args[0], or asks which entry to use.
func pickVPS(store *vps.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if len(store.Entries) == 0 {
		return "", fmt.Errorf("no VPS profiles in %s", store.Path)
	}
	ids := make([]string, len(store.Entries))
	for i, e := range store.Entries {
		ids[i] = e.ID
	}
	return env.Prompt.Select("VPS", ids, "")
}

var vpsScriptCmd = &cobra.Command{
	Use:   "script <id> [script|@file]",
	Short: "Run a script on a VPS over SSH (default: its post-connect script)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadVPS()
		if err != nil {
			return err
		}
		e, err := store.Get(args[0])
		if err != nil {
			return err
		}
		script := e.PostConnectScript
		if len(args) == 2 {
			script = args[1]
		}
		if script, err = scriptBody(script); err != nil {
			return err
		}
		if script == "" {
			return fmt.Errorf(messages.VPSNoScriptFmt, e.ID)
		}
		return remote.NewClient(remote.DefaultKnownHosts(), env.Log, dryRun).Run(e, script)
	},
}

// scriptBody reads "@file" arguments and post-connect scripts that name an existing file;
// anything else is the script itself.
func scriptBody(s string) (string, error) {
	if strings.HasPrefix(s, "@") {
		raw, err := os.ReadFile(strings.TrimPrefix(s, "@"))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if info, err := os.Stat(s); err == nil && info.Mode().IsRegular() {
		raw, err := os.ReadFile(s)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return s, nil
}

var vpsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a VPS file (default: the configured one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := env.Settings.VPSFile
		if len(args) == 1 {
			path = args[0]
		}
		if !validate.New(env.Log).Validate(path, validate.VPS) {
			return fmt.Errorf("%s is not a valid VPS file", path)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{vpsAddCmd, vpsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&vpsFields.ID, "id", "", "Profile id (default: derived from name and user)")
		f.StringVar(&vpsFields.Name, "name", "", "Display name")
		f.StringVar(&vpsFields.Host, "host", "", "Host name or address")
		f.StringVar(&vpsFields.User, "user", "", "SSH user")
		f.StringVar((*string)(&vpsFields.Port), "port", "", "SSH port (default 22)")
		f.StringVar(&vpsFields.PrivateKey, "key", "", "Private key file")
		f.StringVar(&vpsFields.PostConnectScript, "script", "", "Script or script file run by `vps script`")
	}
	vpsCmd.AddCommand(vpsAddCmd, vpsListCmd, vpsUpdateCmd, vpsDeleteCmd, vpsScriptCmd, vpsValidateCmd)
	rootCmd.AddCommand(vpsCmd)
}
