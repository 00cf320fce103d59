// Package remote runs scripts on VPS entries over SSH.
package remote

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/model"
)

// ErrNoAuth is returned when neither a key file, an agent nor a default key is available.
var ErrNoAuth = errors.New("no SSH authentication method available")

// Client dials VPS entries, trusting unknown hosts on first use.
type Client struct {
	KnownHostsFile string
	Log            *logger.Logger
	Timeout        time.Duration
	DryRun         bool
	Out            io.Writer
	ErrOut         io.Writer
}

// DefaultKnownHosts is ~/.ssh/known_hosts.
func DefaultKnownHosts() string {
	home, err := homedir.Dir()
	if err != nil {
		return "known_hosts"
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}

// NewClient returns a Client writing remote output to stdout and stderr.
func NewClient(knownHostsFile string, log *logger.Logger, dryRun bool) *Client {
	return &Client{
		KnownHostsFile: knownHostsFile,
		Log:            log,
		Timeout:        10 * time.Second,
		DryRun:         dryRun,
		Out:            os.Stdout,
		ErrOut:         os.Stderr,
	}
}

// HostKeyCallback verifies against KnownHostsFile. Hosts missing from the file are appended to it;
// a host whose key changed is rejected.
func (c *Client) HostKeyCallback() ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		if _, err := os.Stat(c.KnownHostsFile); err == nil {
			check, err := knownhosts.New(c.KnownHostsFile)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", c.KnownHostsFile, err)
			}
			err = check(hostname, remote, key)
			if err == nil {
				return nil
			}
			var keyErr *knownhosts.KeyError
			if !errors.As(err, &keyErr) || len(keyErr.Want) > 0 {
				return fmt.Errorf("host key verification failed: %w", err)
			}
		}

		if err := c.addHostKey(hostname, key); err != nil {
			return fmt.Errorf("unknown host and failed to store key: %w", err)
		}
		c.Log.Warn("[WARN] Trusting new host key for %s (%s)\n", hostname, Fingerprint(key))
		return nil
	}
}

func (c *Client) addHostKey(hostname string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(c.KnownHostsFile), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(c.KnownHostsFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key) + "\n")
	return err
}

// Fingerprint is the SHA256 fingerprint in the form ssh-keygen prints.
func Fingerprint(key ssh.PublicKey) string {
	hash := sha256.Sum256(key.Marshal())
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(hash[:])
}

// AuthMethods picks how to authenticate against e: its private key when set, otherwise the
// SSH agent followed by the default keys in ~/.ssh.
func (c *Client) AuthMethods(e model.VPSEntry) ([]ssh.AuthMethod, error) {
	if e.PrivateKey != "" {
		path, err := homedir.Expand(e.PrivateKey)
		if err != nil {
			return nil, err
		}
		signer, err := loadSigner(path)
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}

	var methods []ssh.AuthMethod
	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			c.Log.Debug("[DEBUG] SSH agent unavailable: %v\n", err)
		}
	}

	var signers []ssh.Signer
	for _, path := range defaultKeys() {
		signer, err := loadSigner(path)
		if err != nil {
			c.Log.Debug("[DEBUG] Skipping key %s: %v\n", path, err)
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if len(methods) == 0 {
		return nil, ErrNoAuth
	}
	return methods, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", path, err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key %s: %w", path, err)
	}
	return signer, nil
}

// defaultKeys lists the keys in ~/.ssh that exist, most modern first.
func defaultKeys() []string {
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	var keys []string
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		path := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(path); err == nil {
			keys = append(keys, path)
		}
	}
	return keys
}

// Run executes script on e and streams its output. A dry run only prints what would run.
func (c *Client) Run(e model.VPSEntry, script string) error {
	target := fmt.Sprintf("%s@%s", e.EffectiveUser(), e.Address())
	if c.DryRun {
		fmt.Fprintf(c.Out, "[Dry Run] ssh %s %q\n", target, script)
		return nil
	}

	auth, err := c.AuthMethods(e)
	if err != nil {
		return err
	}
	config := &ssh.ClientConfig{
		User:            e.EffectiveUser(),
		Auth:            auth,
		HostKeyCallback: c.HostKeyCallback(),
		Timeout:         c.Timeout,
	}

	c.Log.Debug("[DEBUG] Connecting to %s\n", target)
	client, err := ssh.Dial("tcp", e.Address(), config)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session on %s: %w", target, err)
	}
	defer session.Close()

	session.Stdout = c.Out
	session.Stderr = c.ErrOut

	start := time.Now()
	err = session.Run(script)
	entry := logger.Entry{Level: logger.LevelInfo, Action: "vps_script", App: e.ID, Status: "success"}
	if err != nil {
		entry.Level, entry.Status = logger.LevelError, "failed"
	}
	c.Log.Event(entry.WithDuration(time.Since(start)))
	if err != nil {
		return fmt.Errorf("script failed on %s: %w", target, err)
	}
	return nil
}
