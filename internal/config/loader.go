package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// RegisterFlags declares the persistent flags shared by all commands.
// Flag values take precedence over environment and config file settings.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default: $XDG_CONFIG_HOME/domainmate/config.yaml)")
	flags.StringP("output", "o", "table", "output format: table, json, plain")
	flags.IntP("concurrency", "c", 5, "number of concurrent workers for bulk input")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("proxy", "", "proxy URL for HTTP requests (http, https, socks5)")
	flags.String("user-agent", "", "custom User-Agent string")
	flags.StringSlice("nameserver", nil, "standard resolver (IP[:port]); repeatable, order is fallback priority")
	flags.StringSlice("doh-endpoint", nil, "DNS-over-HTTPS endpoint URL; repeatable, order is fallback priority")
	flags.Duration("attempt-timeout", DefaultAttemptTimeout, "timeout for each individual resolution attempt")
	flags.StringSlice("rbl-zone", nil, "RBL zone to check; repeatable")
	flags.String("geoip-db", "", "path to a GeoIP2/GeoLite2 database for address annotation")
	flags.String("report-dir", "", "directory for HTML reports (empty disables)")
}

// flagBindings maps config keys to flag names where they differ from the
// mapstructure key.
var flagBindings = map[string]string{
	"output":          "output",
	"concurrency":     "concurrency",
	"verbose":         "verbose",
	"proxy":           "proxy",
	"user_agent":      "user-agent",
	"nameservers":     "nameserver",
	"doh_endpoints":   "doh-endpoint",
	"attempt_timeout": "attempt-timeout",
	"rbl_zones":       "rbl-zone",
	"geoip_database":  "geoip-db",
	"report_dir":      "report-dir",
}

// Load resolves the configuration: defaults, then config file, then
// DOMAINMATE_* environment variables, then flags. A missing config file is
// not an error; a malformed one is.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOMAINMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flagName := range flagBindings {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		// Only explicitly-set flags override file and environment values.
		if f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %q: %w", flagName, err)
			}
		}
	}

	configPath := ""
	if f := flags.Lookup("config"); f != nil {
		configPath = f.Value.String()
	}
	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// readConfigFile loads an explicit config file, or searches the default
// locations when none is given.
func readConfigFile(v *viper.Viper, configPath string) error {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configPath, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "domainmate"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// setDefaults configures viper default values matching NewDefaultConfig.
func setDefaults(v *viper.Viper) {
	def := NewDefaultConfig()
	v.SetDefault("output", def.Output)
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("proxy", def.Proxy)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("nameservers", def.Nameservers)
	v.SetDefault("doh_endpoints", def.DoHEndpoints)
	v.SetDefault("attempt_timeout", def.AttemptTimeout)
	v.SetDefault("rbl_zones", def.RBLZones)
	v.SetDefault("geoip_database", def.GeoIPDatabase)
	v.SetDefault("report_dir", def.ReportDir)
	v.SetDefault("heartbeat_url", def.HeartbeatURL)
	v.SetDefault("notify.telegram_token", def.Notify.TelegramToken)
	v.SetDefault("notify.telegram_chat_id", def.Notify.TelegramChatID)
	v.SetDefault("notify.teams_webhook", def.Notify.TeamsWebhook)
	v.SetDefault("notify.webhook_url", def.Notify.WebhookURL)
	v.SetDefault("notify.state_file", def.Notify.StateFile)
}
