package types

import "time"

// HTTPConfig holds settings for the probe and direct-download requests.
type HTTPConfig struct {
	// Timeout bounds connecting and waiting for response headers. Bodies are
	// read without a deadline so large downloads are not cut off.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "reference-archive/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// BrowserConfig holds settings for the headless Chrome session.
type BrowserConfig struct {
	// Bin is the Chrome binary to launch. Empty means rod's managed browser.
	Bin string `json:"bin,omitempty" yaml:"bin,omitempty" mapstructure:"bin"`

	// Headless runs Chrome without a window.
	Headless bool `json:"headless" yaml:"headless" mapstructure:"headless"`

	// Stealth opens pages with anti-detection scripts injected.
	Stealth bool `json:"stealth" yaml:"stealth" mapstructure:"stealth"`

	// NavigationTimeout bounds navigation and the load event.
	NavigationTimeout time.Duration `json:"navigation_timeout" yaml:"navigation_timeout" mapstructure:"navigation_timeout"`

	// IdleTimeout bounds the wait for network activity to settle before a snapshot.
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`

	// SettleGrace is the extra wait after network idle, for pages that
	// fade content in after load.
	SettleGrace time.Duration `json:"settle_grace" yaml:"settle_grace" mapstructure:"settle_grace"`
}

// MirrorConfig holds settings for DOI full-text resolution.
type MirrorConfig struct {
	// BaseURL is the mirror's address; lookups are BaseURL + "/" + DOI.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// ArchiveConfig groups the settings for one archive run.
type ArchiveConfig struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Browser BrowserConfig `json:"browser" yaml:"browser" mapstructure:"browser"`
	Mirror  MirrorConfig  `json:"mirror" yaml:"mirror" mapstructure:"mirror"`
}

// DefaultArchiveConfig returns the settings used when nothing is configured.
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		HTTP: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "reference-archive/0.1",
		},
		Browser: BrowserConfig{
			Headless:          true,
			Stealth:           true,
			NavigationTimeout: 30 * time.Second,
			IdleTimeout:       30 * time.Second,
			SettleGrace:       1 * time.Second,
		},
		Mirror: MirrorConfig{
			BaseURL: "https://sci-hub.st",
		},
	}
}
