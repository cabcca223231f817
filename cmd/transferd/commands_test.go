package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cometbft/cometbft/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoma/transferd/walletClient/config"
	"github.com/anoma/transferd/walletClient/constant"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "init", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, home)
	assert.FileExists(t, filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName))

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, constant.LedgerTransferTimeoutMs, cfg.ConfirmationTimeoutMs)

	_, err = execute(t, "init", "--home", home)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--home", home, "--force")
	assert.NoError(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "transferd")
	assert.Contains(t, out, "CometBFT:   "+version.TMCoreSemVer)
}

func TestCommandsRequireConfig(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, "epoch", "--home", home)
	assert.ErrorContains(t, err, "failed to load config")

	_, err = execute(t, "submit", "--home", home, "--account", "a", "--to", "b", "--amount", "1")
	assert.ErrorContains(t, err, "failed to load config")

	_, err = execute(t, "submit", "--home", home)
	assert.ErrorContains(t, err, "required flag")
}
