/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/shadowrec/pkg/rec"
)

// ErrInvalid marks configuration that parsed but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

const apiKeyBytes = 32

// Config is the recctl configuration file.
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Security Security `yaml:"security"`
	Replay   Replay   `yaml:"replay"`
	Logging  Logging  `yaml:"logging"`
}

// Security holds API authentication settings. recctl serve refuses to
// start without an APIKey.
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Replay holds limits applied to REC files coming in over the API.
type Replay struct {
	// MaxUploadSize caps import and edit request bodies, in bytes.
	MaxUploadSize int64 `yaml:"max_upload_size"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Replay:  Replay{MaxUploadSize: 4 << 20},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Validate normalizes case in the logging section and checks every field
// against the values the server accepts.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Mark(errors.Newf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level), ErrInvalid)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Mark(errors.Newf("logging.format %q is not text or json", c.Logging.Format), ErrInvalid)
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Mark(errors.Newf("port %d is out of range", c.Port), ErrInvalid)
	}
	if c.DataDir == "" {
		return errors.Mark(errors.New("data_dir is empty"), ErrInvalid)
	}
	if c.Replay.MaxUploadSize < rec.MinFileSize {
		return errors.Mark(
			errors.Newf("replay.max_upload_size %d is below the smallest REC file (%d bytes)",
				c.Replay.MaxUploadSize, rec.MinFileSize),
			ErrInvalid)
	}
	return nil
}

// Load reads the file at path over Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrapf(err, "parse config %s", path), ErrInvalid)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed. The
// file is owner-only since it carries the API key.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encode config")
	}

	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0600), "write config")
}

// NewAPIKey returns a random hex-encoded key.
func NewAPIKey() (string, error) {
	key := make([]byte, apiKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return "", errors.Wrap(err, "generate api key")
	}
	return hex.EncodeToString(key), nil
}

// Bootstrap writes a fresh configuration with a generated API key to path.
// dataDir overrides the default data directory when set.
func Bootstrap(path, dataDir string) (*Config, error) {
	cfg := Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	key, err := NewAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.Security.APIKey = key

	if err := Save(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is ~/.config/shadowrec/config.yaml, or shadowrec.yaml in the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shadowrec.yaml"
	}
	return filepath.Join(home, ".config", "shadowrec", "config.yaml")
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
