/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package config holds the compile-time parameters of spec.md §6
// (MAX_FDS, VFS_MAX_COUNT, PATH_MAX_PREFIX) plus the ambient
// logging/audit knobs, with TOML-file overrides layered onto compiled-in
// defaults the way config/config.go does for the teacher's snapshotter
// daemon.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxFDs is spec.md §6's MAX_FDS default.
	DefaultMaxFDs = 16
	// DefaultVFSMaxCount is spec.md §6's VFS_MAX_COUNT default.
	DefaultVFSMaxCount = 4
	// DefaultPathMaxPrefix bounds a backend's registered path prefix.
	DefaultPathMaxPrefix = 64

	DefaultLogLevel = "info"

	// DefaultLogRotateMaxSizeMB is the rotated log file size cap, in
	// megabytes, passed to lumberjack.
	DefaultLogRotateMaxSizeMB = 8
	// DefaultLogRotateMaxBackups bounds how many rotated files accumulate.
	DefaultLogRotateMaxBackups = 5
)

// Config is the process-wide tunable surface. The zero value is invalid;
// use Default() or Load() to obtain one.
type Config struct {
	MaxFDs        int    `toml:"max_fds"`
	VFSMaxCount   int    `toml:"vfs_max_count"`
	PathMaxPrefix int    `toml:"path_max_prefix"`
	LogLevel      string `toml:"log_level"`
	LogDir        string `toml:"log_dir"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	// LogRotateMaxSizeMB, LogRotateMaxBackups, LogRotateMaxAgeDays,
	// LogRotateLocalTime and LogRotateCompress are read by
	// internal/logging.SetUp when LogToStdout is false; they have no
	// effect otherwise.
	LogRotateMaxSizeMB  int  `toml:"log_rotate_max_size_mb"`
	LogRotateMaxBackups int  `toml:"log_rotate_max_backups"`
	LogRotateMaxAgeDays int  `toml:"log_rotate_max_age_days"`
	LogRotateLocalTime  bool `toml:"log_rotate_local_time"`
	LogRotateCompress   bool `toml:"log_rotate_compress"`

	AuditEnabled   bool   `toml:"audit_enabled"`
	AuditDir       string `toml:"audit_dir"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// Default returns the compiled-in defaults. The VFS core runs correctly
// against this value alone; no config file is ever required.
func Default() *Config {
	return &Config{
		MaxFDs:              DefaultMaxFDs,
		VFSMaxCount:         DefaultVFSMaxCount,
		PathMaxPrefix:       DefaultPathMaxPrefix,
		LogLevel:            DefaultLogLevel,
		LogToStdout:         true,
		LogRotateMaxSizeMB:  DefaultLogRotateMaxSizeMB,
		LogRotateMaxBackups: DefaultLogRotateMaxBackups,
		LogRotateLocalTime:  true,
		LogRotateCompress:   true,
	}
}

// Load fills in defaults, then overrides them with whatever fields are
// set in the TOML file at path. A missing file is not an error: the
// defaults stand alone, matching the teacher's "fill up with defaults
// when the file is absent" convention.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	tree, err := toml.LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "load config file %q", path)
	}

	if err := tree.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config file %q", path)
	}

	return cfg, cfg.Validate()
}

// Validate applies spec.md §3's prefix-length invariant bound and the
// descriptor/registry sizing sanity checks.
func (c *Config) Validate() error {
	if c.MaxFDs <= 0 {
		return errors.Errorf("max_fds must be positive, got %d", c.MaxFDs)
	}
	if c.VFSMaxCount <= 0 {
		return errors.Errorf("vfs_max_count must be positive, got %d", c.VFSMaxCount)
	}
	if c.PathMaxPrefix < 2 {
		return errors.Errorf("path_max_prefix must be at least 2, got %d", c.PathMaxPrefix)
	}
	return nil
}
