package config

import (
	"strings"
	"time"
)

const (
	// CurrentVersion is the only settings file version understood.
	CurrentVersion = 1

	// DefaultBaseURL is the origin relative endpoints resolve against.
	// It matches the address the reference backend listens on.
	DefaultBaseURL = "http://127.0.0.1:5000"

	// DefaultDiscoverTimeout is the mDNS browse window in seconds.
	DefaultDiscoverTimeout = 3

	// APIURLEnvVar overrides the endpoint address.
	APIURLEnvVar = "MSGVIEW_API_URL"
)

// Settings is the user configuration file.
type Settings struct {
	Version         int    `yaml:"version"`
	APIURL          string `yaml:"api_url,omitempty"`          // Endpoint override (absolute or relative)
	BaseURL         string `yaml:"base_url,omitempty"`         // Origin for relative endpoints
	Heading         string `yaml:"heading,omitempty"`          // Heading shown above the message
	TimeoutSeconds  int    `yaml:"timeout_seconds,omitempty"`  // 0 disables the request timeout
	Discover        bool   `yaml:"discover,omitempty"`         // Look up a backend over mDNS when api_url is unset
	DiscoverTimeout int    `yaml:"discover_timeout,omitempty"` // mDNS browse window in seconds
}

// NewSettings returns settings populated with defaults.
func NewSettings() *Settings {
	return &Settings{
		Version:         CurrentVersion,
		BaseURL:         DefaultBaseURL,
		DiscoverTimeout: DefaultDiscoverTimeout,
	}
}

// applyDefaults fills zero values left by a partial file.
func (s *Settings) applyDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.DiscoverTimeout <= 0 {
		s.DiscoverTimeout = DefaultDiscoverTimeout
	}
}

// ApplyEnv overlays environment overrides. An empty value is ignored, so
// an exported-but-blank variable keeps the configured endpoint.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := EnvAPIURL(lookup); ok {
		s.APIURL = v
	}
}

// EnvAPIURL returns the trimmed MSGVIEW_API_URL value and whether it is set
// to something other than blanks.
func EnvAPIURL(lookup func(string) (string, bool)) (string, bool) {
	v, ok := lookup(APIURLEnvVar)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Timeout returns the request timeout. Zero means none.
func (s *Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DiscoverWindow returns the mDNS browse window.
func (s *Settings) DiscoverWindow() time.Duration {
	if s.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeout * time.Second
	}
	return time.Duration(s.DiscoverTimeout) * time.Second
}
