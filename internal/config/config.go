// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package config loads the nexus-sms runtime configuration from the
// environment and, for the test client, an optional JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jredh-dev/nexus-sms/internal/logging"
)

// Logging holds settings shared by both binaries.
type Logging struct {
	Level  string `env:"LOG_LEVEL" envDefault:"debug"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// SlogLevel returns the parsed log level.
func (l Logging) SlogLevel() (slog.Level, error) {
	lvl, err := logging.ParseLevel(l.Level)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}
	return lvl, nil
}

// Client is the test client configuration. It is built once at startup and
// treated as read-only afterwards.
type Client struct {
	Port       string            `env:"PORT" envDefault:"8000"`
	File       string            `env:"SMS_CLIENT_CONFIG"`
	MTURL      string            `env:"MT_URL"`
	MTDefaults map[string]string `env:"MT_DEFAULTS"`
	ReplyDelay time.Duration     `env:"MT_REPLY_DELAY" envDefault:"1s"`
	MTTimeout  time.Duration     `env:"MT_TIMEOUT" envDefault:"30s"`
	Logging    Logging

	// MT holds the defaults merged into every outbound MT request body.
	MT map[string]any
}

// clientFile is the on-disk shape of SMS_CLIENT_CONFIG.
type clientFile struct {
	MTURL string         `json:"mt_url"`
	MT    map[string]any `json:"mt"`
}

// LoadClient reads the test client configuration from the process
// environment.
func LoadClient() (*Client, error) {
	return loadClient(env.Options{})
}

func loadClient(opts env.Options) (*Client, error) {
	cfg := &Client{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.MT = map[string]any{}
	if cfg.File != "" {
		f, err := readClientFile(cfg.File)
		if err != nil {
			return nil, err
		}
		if cfg.MTURL == "" {
			cfg.MTURL = f.MTURL
		}
		for k, v := range f.MT {
			cfg.MT[k] = v
		}
	}
	for k, v := range cfg.MTDefaults {
		cfg.MT[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readClientFile(path string) (*clientFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var f clientFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks that the values required before any MO can be served are
// present.
func (c *Client) Validate() error {
	if c.MTURL == "" {
		return ErrMissingMTURL
	}
	u, err := url.Parse(c.MTURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidMTURL, c.MTURL)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Gateway is the mock gateway configuration.
type Gateway struct {
	Port        string        `env:"PORT" envDefault:"9200"`
	DLRDelay    time.Duration `env:"DLR_DELAY" envDefault:"2s"`
	HTTPTimeout time.Duration `env:"GATEWAY_HTTP_TIMEOUT" envDefault:"15s"`
	StaticDir   string        `env:"GATEWAY_STATIC_DIR"`
	Logging     Logging
}

// LoadGateway reads the mock gateway configuration from the process
// environment.
func LoadGateway() (*Gateway, error) {
	return loadGateway(env.Options{})
}

func loadGateway(opts env.Options) (*Gateway, error) {
	cfg := &Gateway{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Logging.SlogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}
