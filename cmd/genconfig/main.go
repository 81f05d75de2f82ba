// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files under deploy/.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/cssload/cssload/config"
	"codeberg.org/cssload/cssload/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	envFileHeader = `# cssload configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# cssload configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxySettingsComment = `## Network proxy settings for upstream calls
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=`
)

// essentialEnv are written uncommented so a fresh deployment sees them.
var essentialEnv = map[string]bool{
	"CSSLOAD_UPSTREAM": true,
}

// essentialYAML are the YAML keys left uncommented.
var essentialYAML = []string{"baseURL:"}

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(filepath.Dir(envOutputFile), dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create deploy directory")
	}

	write(envOutputFile, generateEnvFile())
	write(yamlOutputFile, generateYAMLFile())
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// generateEnvFile lists every env-tagged field with its default, grouped by section.
func generateEnvFile() string {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := typ.Field(i)
		sectionValue := val.Field(i)

		if sectionValue.Kind() != reflect.Struct || section.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", section.Name)

		for j := range section.Type.NumField() {
			field := section.Type.Field(j)
			value := sectionValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")

			switch {
			case essentialEnv[name]:
				fmt.Fprintf(&sb, "%s=\"%v\"\n", name, value.Interface())
			case value.Kind() == reflect.Slice:
				fmt.Fprintf(&sb, "# %s=%s\n", name, joinStrings(value))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString(proxySettingsComment + "\n")

	return sb.String()
}

func joinStrings(value reflect.Value) string {
	parts := make([]string, 0, value.Len())
	for i := range value.Len() {
		parts = append(parts, value.Index(i).String())
	}

	return strings.Join(parts, ",")
}

// generateYAMLFile marshals the defaults and comments out everything but the essentials.
func generateYAMLFile() string {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	var yamlContent strings.Builder

	encoder := yaml.NewEncoder(&yamlContent, config.GetDurationEncoderOption(), yaml.Indent(2))
	if err := encoder.Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys are section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if isEssentialYAML(trimmed) {
			sb.WriteString(line + "\n")

			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indent), trimmed)
	}

	return sb.String()
}

func isEssentialYAML(line string) bool {
	for _, key := range essentialYAML {
		if strings.HasPrefix(line, key) {
			return true
		}
	}

	return false
}
