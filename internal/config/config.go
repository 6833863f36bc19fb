// Package config holds the domainmate configuration and its resolution from
// defaults, config file, environment, and flags.
package config

import "time"

// Config is the fully-resolved domainmate configuration.
type Config struct {
	// Output format: table, json, plain.
	Output string `yaml:"output" mapstructure:"output"`

	// Concurrency is the number of parallel workers for bulk audits.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// Proxy URL for HTTP-based monitors (http, https, socks5).
	Proxy string `yaml:"proxy" mapstructure:"proxy"`

	// UserAgent overrides the default User-Agent string.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Nameservers is the ordered standard resolver pool of the cascade.
	// Entries are IP or IP:port; the order is the fallback priority.
	Nameservers []string `yaml:"nameservers" mapstructure:"nameservers"`

	// DoHEndpoints is the ordered DNS-over-HTTPS fallback pool.
	DoHEndpoints []string `yaml:"doh_endpoints" mapstructure:"doh_endpoints"`

	// AttemptTimeout bounds every individual resolution attempt.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`

	// RBLZones are the blackhole list zones the blacklist monitor checks.
	RBLZones []string `yaml:"rbl_zones" mapstructure:"rbl_zones"`

	// GeoIPDatabase is an optional path to a GeoLite2/GeoIP2 Country or City
	// database; when set, resolved addresses are annotated with their country.
	GeoIPDatabase string `yaml:"geoip_database" mapstructure:"geoip_database"`

	// ReportDir is where HTML reports are written. Empty disables reports.
	ReportDir string `yaml:"report_dir" mapstructure:"report_dir"`

	// HeartbeatURL is pinged with a GET after a successful check run.
	HeartbeatURL string `yaml:"heartbeat_url" mapstructure:"heartbeat_url"`

	// Notify configures the notification channels used by `check --notify`.
	Notify NotifyConfig `yaml:"notify" mapstructure:"notify"`
}

// NotifyConfig holds notification channel settings. Channels with empty
// settings are skipped. Tokens are usually supplied via environment
// (DOMAINMATE_NOTIFY_TELEGRAM_TOKEN and friends) rather than the config file.
type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token" mapstructure:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id" mapstructure:"telegram_chat_id"`
	TeamsWebhook   string `yaml:"teams_webhook" mapstructure:"teams_webhook"`
	WebhookURL     string `yaml:"webhook_url" mapstructure:"webhook_url"`
	StateFile      string `yaml:"state_file" mapstructure:"state_file"`
}

// Default endpoint pools. The resolver order is the cascade's fallback
// priority: Cloudflare, Google, Quad9, OpenDNS, Verisign.
var (
	DefaultNameservers = []string{
		"1.1.1.1", "1.0.0.1",
		"8.8.8.8", "8.8.4.4",
		"9.9.9.9", "149.112.112.112",
		"208.67.222.222",
		"64.6.64.6",
	}

	DefaultDoHEndpoints = []string{
		"https://cloudflare-dns.com/dns-query",
		"https://dns.google/dns-query",
	}

	DefaultRBLZones = []string{
		"zen.spamhaus.org",
		"bl.spamcop.net",
		"cbl.abuseat.org",
		"dnsbl.sorbs.net",
		"b.barracudacentral.org",
		"dnsbl-1.uceprotect.net",
	}
)

// DefaultAttemptTimeout bounds one resolution attempt.
const DefaultAttemptTimeout = 2 * time.Second

// NewDefaultConfig returns a Config with the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Output:         "table",
		Concurrency:    5,
		Nameservers:    DefaultNameservers,
		DoHEndpoints:   DefaultDoHEndpoints,
		AttemptTimeout: DefaultAttemptTimeout,
		RBLZones:       DefaultRBLZones,
		Notify: NotifyConfig{
			StateFile: "notification_state.json",
		},
	}
}
