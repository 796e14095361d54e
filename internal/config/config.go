// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package config loads the YAML configuration of the flattrie binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	flattrie "github.com/absolutelightning/go-flat-trie"
)

type Config struct {
	Trie   TrieConfig   `yaml:"trie"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type TrieConfig struct {
	Alphabet   string `yaml:"alphabet"`       // digits, char-digits, lower-case or bytes
	MaxKeyLen  int    `yaml:"max_key_length"` // at least 2
	Fill       string `yaml:"fill"`           // value of unwritten slots
	Addressing string `yaml:"addressing"`     // shared or positional
	MaxSlots   int    `yaml:"max_slots"`      // refuse layouts larger than this
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var defaultPaths = []string{"configs/flattrie.yaml", "flattrie.yaml"}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Trie: TrieConfig{
			Alphabet:   "char-digits",
			MaxKeyLen:  4,
			Addressing: "shared",
			MaxSlots:   1 << 24,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configPath over the defaults. With an empty path the default
// locations are tried and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range defaultPaths {
			data, err := os.ReadFile(p)
			if err == nil {
				return cfg, decode(data, cfg)
			}
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}
	return cfg, decode(data, cfg)
}

func decode(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks the trie section and resolves its names.
func (c *Config) Validate() error {
	if _, err := Alphabet(c.Trie.Alphabet); err != nil {
		return err
	}
	if _, err := Addressing(c.Trie.Addressing); err != nil {
		return err
	}
	if c.Trie.MaxKeyLen < 2 {
		return fmt.Errorf("trie.max_key_length: %w", flattrie.ErrKeyLengthTooShort)
	}
	if c.Trie.MaxSlots <= 0 {
		return errors.New("trie.max_slots must be positive")
	}
	return nil
}

// Alphabet resolves an alphabet name.
func Alphabet(name string) (flattrie.Alphabet[byte], error) {
	switch name {
	case "digits":
		return flattrie.Digits, nil
	case "char-digits":
		return flattrie.CharDigits, nil
	case "lower-case":
		return flattrie.LowerCase, nil
	case "bytes":
		return flattrie.Bytes, nil
	default:
		return nil, fmt.Errorf("unknown alphabet %q", name)
	}
}

// Addressing resolves an addressing scheme name.
func Addressing(name string) (flattrie.Addressing, error) {
	switch name {
	case "", "shared":
		return flattrie.SharedWeight, nil
	case "positional":
		return flattrie.Positional, nil
	default:
		return 0, fmt.Errorf("unknown addressing %q", name)
	}
}

// BuildTrie constructs the configured trie. Layouts above MaxSlots are
// refused before any storage is allocated.
func (c *Config) BuildTrie() (*flattrie.Trie[byte, string], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	alphabet, _ := Alphabet(c.Trie.Alphabet)
	addressing, _ := Addressing(c.Trie.Addressing)

	layout, err := flattrie.PlanLayout(alphabet.Size(), c.Trie.MaxKeyLen, addressing)
	if err != nil {
		return nil, err
	}
	if layout.Slots > c.Trie.MaxSlots {
		return nil, fmt.Errorf("trie needs %d slots, max_slots is %d", layout.Slots, c.Trie.MaxSlots)
	}
	return flattrie.NewWithAddressing(alphabet, c.Trie.MaxKeyLen, c.Trie.Fill, addressing)
}
