package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL         = "http://localhost:3000/api"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultLoginTimeout    = 10 * time.Second
	DefaultRowHeight       = 1
	DefaultPageSize        = 10
	DefaultFetchPageSize   = 25
	DefaultHandoffTTL      = 5 * time.Minute
	DefaultHandoffCapacity = 64
	DefaultTheme           = "dark"
)

var (
	configPathMu     sync.RWMutex
	customConfigPath string
)

// SetConfigPath overrides the config file location (from --config or CAREDASH_CONFIG).
// It must be called before the first File() call to take effect.
func SetConfigPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is empty")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("expand config path: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}
	configPathMu.Lock()
	customConfigPath = abs
	configPathMu.Unlock()
	return nil
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "caredash"), nil
}

func ConfigPath() (string, error) {
	configPathMu.RLock()
	p := customConfigPath
	configPathMu.RUnlock()
	if p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

type TimeoutConfig struct {
	Request Duration `yaml:"request,omitempty"`
	Login   Duration `yaml:"login,omitempty"`
}

type TableConfig struct {
	RowHeight       int `yaml:"row_height,omitempty"`
	DefaultPageSize int `yaml:"default_page_size,omitempty"`
	FetchPageSize   int `yaml:"fetch_page_size,omitempty"`
}

type ExportConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	S3Bucket string `yaml:"s3_bucket,omitempty"`
	S3Prefix string `yaml:"s3_prefix,omitempty"`
	// S3Region and AWSProfile override the shared AWS config for uploads.
	S3Region   string `yaml:"s3_region,omitempty"`
	AWSProfile string `yaml:"aws_profile,omitempty"`
}

type HandoffConfig struct {
	TTL      Duration `yaml:"ttl,omitempty"`
	Capacity int      `yaml:"capacity,omitempty"`
}

type FileConfig struct {
	mu       sync.RWMutex  `yaml:"-"`
	API      APIConfig     `yaml:"api,omitempty"`
	Timeouts TimeoutConfig `yaml:"timeouts,omitempty"`
	Table    TableConfig   `yaml:"table,omitempty"`
	Export   ExportConfig  `yaml:"export,omitempty"`
	Handoff  HandoffConfig `yaml:"handoff,omitempty"`
	Theme    string        `yaml:"theme,omitempty"`
}

// Duration wraps time.Duration for YAML marshal/unmarshal as string (e.g., "5s", "30s")
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		API: APIConfig{BaseURL: DefaultBaseURL},
		Timeouts: TimeoutConfig{
			Request: Duration(DefaultRequestTimeout),
			Login:   Duration(DefaultLoginTimeout),
		},
		Table: TableConfig{
			RowHeight:       DefaultRowHeight,
			DefaultPageSize: DefaultPageSize,
			FetchPageSize:   DefaultFetchPageSize,
		},
		Handoff: HandoffConfig{
			TTL:      Duration(DefaultHandoffTTL),
			Capacity: DefaultHandoffCapacity,
		},
		Theme: DefaultTheme,
	}
}

var (
	fileConfig     *FileConfig
	fileConfigOnce sync.Once
)

// File returns the process-wide file config, loading it on first use.
// A missing or unreadable file falls back to defaults.
func File() *FileConfig {
	fileConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = DefaultFileConfig()
		}
		fileConfig = cfg
	})
	return fileConfig
}

func Load() (*FileConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultFileConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults.
func LoadFrom(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFileConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *FileConfig) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config atomically: temp file in the same dir, then rename.
func (c *FileConfig) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	snapshot := withRLock(&c.mu, func() FileConfig {
		return FileConfig{
			API:      c.API,
			Timeouts: c.Timeouts,
			Table:    c.Table,
			Export:   c.Export,
			Handoff:  c.Handoff,
			Theme:    c.Theme,
		}
	})

	data, err := yaml.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename config file: %w", err)
	}

	return nil
}

func (c *FileConfig) applyDefaults() {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.Timeouts.Request <= 0 {
		c.Timeouts.Request = Duration(DefaultRequestTimeout)
	}
	if c.Timeouts.Login <= 0 {
		c.Timeouts.Login = Duration(DefaultLoginTimeout)
	}
	if c.Table.RowHeight <= 0 {
		c.Table.RowHeight = DefaultRowHeight
	}
	if c.Table.DefaultPageSize <= 0 {
		c.Table.DefaultPageSize = DefaultPageSize
	}
	if c.Table.FetchPageSize <= 0 {
		c.Table.FetchPageSize = DefaultFetchPageSize
	}
	if c.Handoff.TTL <= 0 {
		c.Handoff.TTL = Duration(DefaultHandoffTTL)
	}
	if c.Handoff.Capacity <= 0 {
		c.Handoff.Capacity = DefaultHandoffCapacity
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

func (c *FileConfig) BaseURL() string {
	return withRLock(&c.mu, func() string { return c.API.BaseURL })
}

func (c *FileConfig) RequestTimeout() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Timeouts.Request == 0 {
			return DefaultRequestTimeout
		}
		return c.Timeouts.Request.Duration()
	})
}

func (c *FileConfig) LoginTimeout() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Timeouts.Login == 0 {
			return DefaultLoginTimeout
		}
		return c.Timeouts.Login.Duration()
	})
}

func (c *FileConfig) RowHeight() int {
	return withRLock(&c.mu, func() int {
		if c.Table.RowHeight <= 0 {
			return DefaultRowHeight
		}
		return c.Table.RowHeight
	})
}

func (c *FileConfig) DefaultPageSize() int {
	return withRLock(&c.mu, func() int {
		if c.Table.DefaultPageSize <= 0 {
			return DefaultPageSize
		}
		return c.Table.DefaultPageSize
	})
}

func (c *FileConfig) FetchPageSize() int {
	return withRLock(&c.mu, func() int {
		if c.Table.FetchPageSize <= 0 {
			return DefaultFetchPageSize
		}
		return c.Table.FetchPageSize
	})
}

func (c *FileConfig) ExportSettings() ExportConfig {
	return withRLock(&c.mu, func() ExportConfig { return c.Export })
}

func (c *FileConfig) HandoffTTL() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Handoff.TTL == 0 {
			return DefaultHandoffTTL
		}
		return c.Handoff.TTL.Duration()
	})
}

func (c *FileConfig) HandoffCapacity() int {
	return withRLock(&c.mu, func() int {
		if c.Handoff.Capacity <= 0 {
			return DefaultHandoffCapacity
		}
		return c.Handoff.Capacity
	})
}

func (c *FileConfig) GetTheme() string {
	return withRLock(&c.mu, func() string { return c.Theme })
}

func (c *FileConfig) SetTheme(name string) {
	doWithLock(&c.mu, func() { c.Theme = name })
}
