// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
//
// Contexts without a logger of their own fall back to the global one.
func SetDefaultLogger() {
	log.Logger = log.Output(ConsoleWriter(os.Stderr))

	zerolog.DefaultContextLogger = &log.Logger
}

// ConsoleWriter returns a human-friendly writer for f, coloured only when f is a terminal.
//
// On a terminal, span events are condensed to "[destination] status METHOD url".
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			if sys, ok := m["sys"]; ok && sys == "http" {
				m["message"] = fmt.Sprintf("[%s] %v %-5s %s", m["destination"], m["status_code"], m["method"], m["url"])

				for _, key := range []string{"sys", "method", "status_code", "url", "destination", "request_id"} {
					delete(m, key)
				}
			}

			return nil
		}
	}

	return w
}
