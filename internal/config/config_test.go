package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsValidProfileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"default", true},
		{"staging-eu", true},
		{"prod_2", true},
		{"team.ops", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidProfileName(tt.name); got != tt.want {
				t.Errorf("IsValidProfileName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	valid := []string{"http://localhost:3000/api", "https://care.example.org"}
	for _, u := range valid {
		if err := ValidateBaseURL(u); err != nil {
			t.Errorf("ValidateBaseURL(%q) = %v", u, err)
		}
	}
	invalid := []string{"", "localhost:3000", "ftp://care.example.org", "https://"}
	for _, u := range invalid {
		err := ValidateBaseURL(u)
		if err == nil {
			t.Errorf("ValidateBaseURL(%q) expected error", u)
			continue
		}
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("ValidateBaseURL(%q) error type = %T", u, err)
		}
	}
}

func TestConfigProfileAndBaseURL(t *testing.T) {
	c := &Config{}

	c.SetBaseURL("https://care.example.org/api/")
	if got := c.BaseURL(); got != "https://care.example.org/api" {
		t.Errorf("BaseURL() = %q", got)
	}

	c.UseProfile(Profile{Name: "staging", APIURL: "https://staging.example.org/api", Email: "ops@example.org"})
	if c.Profile() != "staging" {
		t.Errorf("Profile() = %q", c.Profile())
	}
	if c.BaseURL() != "https://staging.example.org/api" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.DefaultEmail() != "ops@example.org" {
		t.Errorf("DefaultEmail() = %q", c.DefaultEmail())
	}

	c.SetReadOnly(true)
	if !c.ReadOnly() {
		t.Error("expected read-only")
	}

	c.AddWarning("profile file unreadable")
	if w := c.Warnings(); len(w) != 1 {
		t.Errorf("Warnings() = %v", w)
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles")
	content := `[default]
api_url = https://care.example.org/api/

[profile staging]
api_url = https://staging.example.org/api
email = ops@example.org

[profile bad name]
api_url = https://ignored.example.org
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2: %+v", len(profiles), profiles)
	}

	def, ok := FindProfile(profiles, "default")
	if !ok {
		t.Fatal("default profile not found")
	}
	if def.APIURL != "https://care.example.org/api" {
		t.Errorf("default APIURL = %q", def.APIURL)
	}

	stg, ok := FindProfile(profiles, "staging")
	if !ok {
		t.Fatal("staging profile not found")
	}
	if stg.Email != "ops@example.org" {
		t.Errorf("staging Email = %q", stg.Email)
	}

	if _, ok := FindProfile(profiles, "prod"); ok {
		t.Error("unexpected prod profile")
	}
}

func TestLoadProfiles_MissingFile(t *testing.T) {
	profiles, err := LoadProfiles(filepath.Join(t.TempDir(), "profiles"))
	if err != nil {
		t.Fatalf("LoadProfiles() error = %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %v", profiles)
	}
}
