// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Global exposes the server configuration.
var Global ServerConfig

// Cookie security modes.
const (
	SecureAuto   = "auto"
	SecureAlways = "always"
	SecureNever  = "never"
)

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"CSSLOAD_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"CSSLOAD_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"CSSLOAD_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"CSSLOAD_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
	} `yaml:"basic"`

	Upstream struct {
		RawBaseURL     string        `env:"CSSLOAD_UPSTREAM,overwrite" yaml:"baseURL"`
		BaseURL        *url.URL      `yaml:"-"`
		TokenPath      string        `env:"CSSLOAD_TOKEN_PATH,overwrite" yaml:"tokenPath"`
		UserAgent      string        `env:"CSSLOAD_USER_AGENT,overwrite" yaml:"userAgent"`
		AcceptLanguage string        `env:"CSSLOAD_ACCEPTLANGUAGE,overwrite" yaml:"acceptLanguage"`
		RateLimit      float64       `env:"CSSLOAD_RATE_LIMIT,overwrite" yaml:"rateLimit"`
		RateBurst      int           `env:"CSSLOAD_RATE_BURST,overwrite" yaml:"rateBurst"`
		Timeout        time.Duration `env:"CSSLOAD_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"upstream"`

	Cookie struct {
		Secure      string        `env:"CSSLOAD_COOKIE_SECURE,overwrite" yaml:"secure"`
		RawSameSite string        `env:"CSSLOAD_COOKIE_SAMESITE,overwrite" yaml:"sameSite"`
		SameSite    http.SameSite `yaml:"-"`
		MaxAge      time.Duration `env:"CSSLOAD_COOKIE_MAX_AGE,overwrite" yaml:"maxAge"`
	} `yaml:"cookie"`

	Page struct {
		DefaultDomain string        `env:"CSSLOAD_DEFAULT_DOMAIN,overwrite" yaml:"defaultDomain"`
		FetchTimeout  time.Duration `env:"CSSLOAD_PAGE_FETCH_TIMEOUT,overwrite" yaml:"fetchTimeout"`
	} `yaml:"page"`

	Development struct {
		InDevelopment        bool   `env:"CSSLOAD_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"CSSLOAD_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"CSSLOAD_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CSSLOAD_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"CSSLOAD_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CSSLOAD_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from defaults, a YAML file, a .env file and
// the environment, in that order, then validates it.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config, then CSSLOAD_CONFIGFILE, then ./config.yaml or ./config.yml.
	switch {
	case configFlagUserSet:
		configFilePath = parsedConfigFlagValue
	case os.Getenv("CSSLOAD_CONFIGFILE") != "":
		configFilePath = os.Getenv("CSSLOAD_CONFIGFILE")
	default:
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	return cfg.load(configFilePath)
}

// load runs every stage after the config file path is known.
func (cfg *ServerConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// CookieSecure reports whether the CSRF cookie is written with the Secure attribute.
func (cfg *ServerConfig) CookieSecure() bool {
	switch cfg.Cookie.Secure {
	case SecureAlways:
		return true
	case SecureNever:
		return false
	default:
		return cfg.Upstream.BaseURL != nil && cfg.Upstream.BaseURL.Scheme == "https"
	}
}

var staticSkippedPathPrefixes = []string{"/healthz"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
