// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Marshal renders cfg as the YAML a config file would contain.
func (cfg *ServerConfig) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg, GetDurationEncoderOption())
}

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("upstream", cfg.Upstream.BaseURL.String()).
		Msg("Starting cssload")

	configYAML, err := cfg.Marshal()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
