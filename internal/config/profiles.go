package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

const profileSectionPrefix = "profile "

// Profile is a named backend target read from the profiles file.
type Profile struct {
	Name   string
	APIURL string
	Email  string
}

// ProfilesPath returns ~/.config/caredash/profiles.
func ProfilesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles"), nil
}

// LoadProfiles parses an INI file of the form:
//
//	[default]
//	api_url = https://care.example.org/api
//
//	[profile staging]
//	api_url = https://staging.care.example.org/api
//	email   = ops@example.org
//
// A missing file yields no profiles and no error.
func LoadProfiles(path string) ([]Profile, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	var profiles []Profile
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		switch {
		case name == ini.DefaultSection:
			name = "default"
		case strings.HasPrefix(name, profileSectionPrefix):
			name = strings.TrimSpace(strings.TrimPrefix(name, profileSectionPrefix))
		}
		if !IsValidProfileName(name) {
			continue
		}
		p := Profile{
			Name:   name,
			APIURL: strings.TrimRight(sec.Key("api_url").String(), "/"),
			Email:  sec.Key("email").String(),
		}
		if i := slices.IndexFunc(profiles, func(e Profile) bool { return e.Name == name }); i >= 0 {
			profiles[i] = p
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// FindProfile returns the named profile from profiles.
func FindProfile(profiles []Profile, name string) (Profile, bool) {
	i := slices.IndexFunc(profiles, func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return Profile{}, false
	}
	return profiles[i], true
}
