/*
 * SPDX-License-Identifier: Apache-2.0
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultMaxFDs, cfg.MaxFDs)
	assert.Equal(t, DefaultVFSMaxCount, cfg.VFSMaxCount)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pico-vfs.toml")
	content := "max_fds = 32\nvfs_max_count = 8\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.MaxFDs)
	assert.Equal(t, 8, cfg.VFSMaxCount)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultPathMaxPrefix, cfg.PathMaxPrefix)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.MaxFDs = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PathMaxPrefix = 1
	assert.Error(t, cfg.Validate())
}
