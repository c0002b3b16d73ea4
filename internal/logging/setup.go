/*
 * SPDX-License-Identifier: Apache-2.0
 */

package logging

import (
	"context"
	"os"
	"path/filepath"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/pico-embedded/vfsd/internal/config"
)

const (
	// DefaultLogDirName is the log subdirectory name a host process
	// typically anchors under its own state directory.
	DefaultLogDirName  = "logs"
	defaultLogFileName = "pico-vfs.log"
)

// SetUp configures the process-wide logrus logger from cfg: level,
// stdout-vs-rotating-file output, and (when rotating) lumberjack's
// size/backup/age/compress knobs. Pulling every knob from the loaded
// config.Config instead of a positional arg list means a host only ever
// has one place to change logging behavior — the same config file that
// already sets MAX_FDS and the rest of spec.md §6's parameters.
func SetUp(cfg *config.Config) error {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	if cfg.LogToStdout {
		logrus.SetOutput(os.Stdout)
	} else {
		if cfg.LogDir == "" {
			return errors.New("log_dir is needed when log_to_stdout is false")
		}

		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			return errors.Wrapf(err, "create log dir %s", cfg.LogDir)
		}
		logFile := filepath.Join(cfg.LogDir, defaultLogFileName)

		lumberjackLogger := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    cfg.LogRotateMaxSizeMB,
			MaxBackups: cfg.LogRotateMaxBackups,
			MaxAge:     cfg.LogRotateMaxAgeDays,
			Compress:   cfg.LogRotateCompress,
			LocalTime:  cfg.LogRotateLocalTime,
		}
		logrus.SetOutput(lumberjackLogger)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: log.RFC3339NanoFixed,
		FullTimestamp:   true,
	})
	return nil
}

func WithContext() context.Context {
	return log.WithLogger(context.Background(), log.L)
}
