package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath    = "~/.config/volmigrate/config.toml"
	defaultReceiptDir    = "~/.local/share/volmigrate"
	defaultReceiptPrefix = "joblist-"
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
)

// CloudStack contains the management API endpoint and credentials.
type CloudStack struct {
	APIURL    string `toml:"api_url"`
	APIKey    string `toml:"api_key"`
	SecretKey string `toml:"secret_key"`
	// TimeoutSeconds bounds each API call. Zero disables the client timeout;
	// migrations are operator-attended, so a hung call is visible and killable.
	TimeoutSeconds int  `toml:"timeout_seconds"`
	VerifyTLS      bool `toml:"verify_tls"`
}

// Receipts contains the job receipt ledger location.
type Receipts struct {
	Dir    string `toml:"dir"`
	Prefix string `toml:"prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for volmigrate.
type Config struct {
	CloudStack CloudStack `toml:"cloudstack"`
	Receipts   Receipts   `toml:"receipts"`
	Logging    Logging    `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		CloudStack: CloudStack{
			VerifyTLS: true,
		},
		Receipts: Receipts{
			Dir:    defaultReceiptDir,
			Prefix: defaultReceiptPrefix,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the absolute path of the default config location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. An empty path
// selects the default location. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("config file %s not found; create it with [cloudstack] api_url, api_key, and secret_key", resolved)
		}
		return nil, "", fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(resolved); err != nil {
		return nil, "", err
	}

	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return ExpandPath(path)
	}
	return DefaultConfigPath()
}

func (c *Config) normalize() error {
	var err error
	if c.Receipts.Dir, err = ExpandPath(c.Receipts.Dir); err != nil {
		return fmt.Errorf("receipts.dir: %w", err)
	}
	if strings.TrimSpace(c.Receipts.Prefix) == "" {
		c.Receipts.Prefix = defaultReceiptPrefix
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.CloudStack.APIURL = strings.TrimSpace(c.CloudStack.APIURL)
	c.CloudStack.APIKey = strings.TrimSpace(c.CloudStack.APIKey)
	c.CloudStack.SecretKey = strings.TrimSpace(c.CloudStack.SecretKey)
	return nil
}

// EnsureDirectories creates the receipt directory if it does not exist.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Receipts.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure receipt directory: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory
// and returns an absolute path.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
