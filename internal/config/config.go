package config

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// profileNamePattern matches valid backend profile names (alphanumeric, hyphen, underscore, period)
var profileNamePattern = regexp.MustCompile(`^[\w\-.]+$`)

type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidProfileName checks if the profile name contains only valid characters.
func IsValidProfileName(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	return profileNamePattern.MatchString(name)
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: "base_url", Value: raw, Message: "invalid API base URL: " + raw + " (expected http(s)://host[/path])"}
	}
	return nil
}

// Config holds runtime settings resolved at startup (flags, env, profiles).
type Config struct {
	mu       sync.RWMutex
	profile  string
	baseURL  string
	email    string
	readOnly bool
	warnings []string
}

var (
	global   *Config
	initOnce sync.Once
)

// Global returns the global config instance
func Global() *Config {
	initOnce.Do(func() {
		global = &Config{}
	})
	return global
}

func (c *Config) Profile() string {
	return withRLock(&c.mu, func() string { return c.profile })
}

// UseProfile applies a backend profile's settings.
func (c *Config) UseProfile(p Profile) {
	doWithLock(&c.mu, func() {
		c.profile = p.Name
		if p.APIURL != "" {
			c.baseURL = p.APIURL
		}
		if p.Email != "" {
			c.email = p.Email
		}
	})
}

// BaseURL returns the runtime base URL, falling back to the file config.
func (c *Config) BaseURL() string {
	u := withRLock(&c.mu, func() string { return c.baseURL })
	if u == "" {
		return File().BaseURL()
	}
	return u
}

func (c *Config) SetBaseURL(u string) {
	doWithLock(&c.mu, func() { c.baseURL = strings.TrimRight(u, "/") })
}

// DefaultEmail is the login email prefilled in the login view.
func (c *Config) DefaultEmail() string {
	return withRLock(&c.mu, func() string { return c.email })
}

func (c *Config) SetDefaultEmail(email string) {
	doWithLock(&c.mu, func() { c.email = strings.TrimSpace(email) })
}

func (c *Config) ReadOnly() bool {
	return withRLock(&c.mu, func() bool { return c.readOnly })
}

func (c *Config) SetReadOnly(readOnly bool) {
	doWithLock(&c.mu, func() { c.readOnly = readOnly })
}

func (c *Config) Warnings() []string {
	return withRLock(&c.mu, func() []string { return append([]string(nil), c.warnings...) })
}

func (c *Config) AddWarning(msg string) {
	doWithLock(&c.mu, func() { c.warnings = append(c.warnings, msg) })
}
