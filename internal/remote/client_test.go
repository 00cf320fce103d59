package remote

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"machine-bootstrap/internal/logger"
	"machine-bootstrap/internal/model"
)

func hostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func TestHostKeyTrustOnFirstUse(t *testing.T) {
	known := filepath.Join(t.TempDir(), "ssh", "known_hosts")
	c := NewClient(known, logger.Discard(), false)
	cb := c.HostKeyCallback()
	addr := &net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 2222}
	key := hostKey(t)

	require.NoError(t, cb("10.0.0.5:2222", addr, key))
	data, err := os.ReadFile(known)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[10.0.0.5]:2222 ssh-ed25519 "), string(data))

	// Known now; nothing else is appended.
	require.NoError(t, cb("10.0.0.5:2222", addr, key))
	again, err := os.ReadFile(known)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	assert.ErrorContains(t, cb("10.0.0.5:2222", addr, hostKey(t)), "host key verification failed")

	other := &net.TCPAddr{IP: net.ParseIP("10.0.0.6"), Port: 22}
	require.NoError(t, cb("db.example:22", other, hostKey(t)))
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint(hostKey(t))
	assert.True(t, strings.HasPrefix(fp, "SHA256:"))
	assert.Len(t, fp, len("SHA256:")+43)
}

func TestAuthMethodsUsesEntryKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "test")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id_test")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))

	c := NewClient("", logger.Discard(), false)
	methods, err := c.AuthMethods(model.VPSEntry{Host: "h", PrivateKey: path})
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	_, err = c.AuthMethods(model.VPSEntry{Host: "h", PrivateKey: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "failed to read key")
}

func TestAuthMethodsWithoutAnySource(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("SSH_AUTH_SOCK", "")
	c := NewClient("", logger.Discard(), false)
	_, err := c.AuthMethods(model.VPSEntry{Host: "h"})
	assert.ErrorIs(t, err, ErrNoAuth)
}

func TestDryRunPrintsOnly(t *testing.T) {
	var out bytes.Buffer
	c := NewClient("", logger.Discard(), true)
	c.Out = &out
	require.NoError(t, c.Run(model.VPSEntry{Host: "10.0.0.5", User: "root", Port: "2222"}, "uptime"))
	assert.Equal(t, "[Dry Run] ssh root@10.0.0.5:2222 \"uptime\"\n", out.String())
}
