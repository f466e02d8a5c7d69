package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_MarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		duration Duration
		want     string
	}{
		{"5s", Duration(5 * time.Second), "5s"},
		{"15s", Duration(15 * time.Second), "15s"},
		{"5m", Duration(5 * time.Minute), "5m0s"},
		{"zero", Duration(0), "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(tt.duration)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if got := string(data); got != tt.want+"\n" {
				t.Errorf("Marshal = %q, want %q", got, tt.want+"\n")
			}

			var d Duration
			if err := yaml.Unmarshal([]byte(tt.want), &d); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if d != tt.duration {
				t.Errorf("Unmarshal = %v, want %v", d, tt.duration)
			}
		})
	}
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := yaml.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", cfg.BaseURL(), DefaultBaseURL)
	}
	if cfg.RowHeight() != DefaultRowHeight {
		t.Errorf("RowHeight() = %d, want %d", cfg.RowHeight(), DefaultRowHeight)
	}
}

func TestLoadFrom_PartialFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://care.example.org/api
timeouts:
  request: 3s
table:
  row_height: 2
export:
  dir: /tmp/exports
  s3_bucket: care-exports
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if got := cfg.BaseURL(); got != "https://care.example.org/api" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := cfg.RequestTimeout(); got != 3*time.Second {
		t.Errorf("RequestTimeout() = %v, want 3s", got)
	}
	if got := cfg.LoginTimeout(); got != DefaultLoginTimeout {
		t.Errorf("LoginTimeout() = %v, want default", got)
	}
	if got := cfg.RowHeight(); got != 2 {
		t.Errorf("RowHeight() = %d, want 2", got)
	}
	if got := cfg.DefaultPageSize(); got != DefaultPageSize {
		t.Errorf("DefaultPageSize() = %d, want %d", got, DefaultPageSize)
	}
	if got := cfg.ExportSettings().S3Bucket; got != "care-exports" {
		t.Errorf("S3Bucket = %q", got)
	}
	if got := cfg.HandoffTTL(); got != DefaultHandoffTTL {
		t.Errorf("HandoffTTL() = %v", got)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_NonPositiveValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("table:\n  row_height: -3\n  fetch_page_size: 0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RowHeight() != DefaultRowHeight {
		t.Errorf("RowHeight() = %d", cfg.RowHeight())
	}
	if cfg.FetchPageSize() != DefaultFetchPageSize {
		t.Errorf("FetchPageSize() = %d", cfg.FetchPageSize())
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultFileConfig()
	cfg.SetTheme("light")
	cfg.Export.Dir = "/var/exports"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.GetTheme() != "light" {
		t.Errorf("GetTheme() = %q, want light", loaded.GetTheme())
	}
	if loaded.ExportSettings().Dir != "/var/exports" {
		t.Errorf("Export.Dir = %q", loaded.ExportSettings().Dir)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml in dir, got %d entries", len(entries))
	}
}

func TestSetConfigPath(t *testing.T) {
	dir := t.TempDir()

	if err := SetConfigPath("  "); err == nil {
		t.Error("expected error for empty path")
	}
	if err := SetConfigPath(dir); err == nil {
		t.Error("expected error for directory path")
	}

	want := filepath.Join(dir, "custom.yaml")
	if err := SetConfigPath(want); err != nil {
		t.Fatalf("SetConfigPath() error = %v", err)
	}
	t.Cleanup(func() {
		configPathMu.Lock()
		customConfigPath = ""
		configPathMu.Unlock()
	})

	got, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}
