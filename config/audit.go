// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/cssload/cssload/core/audit"
)

const (
	responseDirPermissions = 0o700
	logFilePermissions     = 0o666
)

// setupAudit applies the log level, log outputs and response saving settings.
func (cfg *ServerConfig) setupAudit() {
	if cfg.Development.InDevelopment {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	} else if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	writers := make([]io.Writer, 0, len(cfg.Log.Outputs))

	for _, output := range cfg.Log.Outputs {
		if w := cfg.logWriter(output); w != nil {
			writers = append(writers, w)
		}
	}

	if len(writers) == 0 {
		writers = append(writers, audit.ConsoleWriter(os.Stderr))
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	audit.SaveResponses = cfg.Development.SaveResponses
	audit.ResponseDirectory = cfg.Development.ResponseSaveLocation

	if audit.SaveResponses {
		if err := os.MkdirAll(audit.ResponseDirectory, responseDirPermissions); err != nil {
			log.Error().
				Err(err).
				Str("path", audit.ResponseDirectory).
				Msg("Failed to create response directory, not saving responses")

			audit.SaveResponses = false
		}
	}
}

// logWriter opens one log destination, honouring the configured format.
func (cfg *ServerConfig) logWriter(output string) io.Writer {
	var file *os.File

	switch output {
	case "/dev/stdout":
		file = os.Stdout
	case "/dev/stderr":
		file = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

			return nil
		}

		file = f
	}

	if cfg.Log.Format == "json" {
		return file
	}

	return audit.ConsoleWriter(file)
}
