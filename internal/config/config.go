package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/funnyzak/rinktap/internal/relay"
)

// Config application configuration structure
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Client  ClientConfig  `yaml:"client" mapstructure:"client"`
	Hosts   HostsConfig   `yaml:"hosts" mapstructure:"hosts"`
	Relays  []RelayConfig `yaml:"relays" mapstructure:"relays"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Trace   TraceConfig   `yaml:"trace" mapstructure:"trace"`
	Serve   ServeConfig   `yaml:"serve" mapstructure:"serve"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// LogConfig log configuration
type LogConfig struct {
	Level       string        `yaml:"level" mapstructure:"level"`
	FileLogging FileLogConfig `yaml:"file_logging" mapstructure:"file_logging"`
}

// FileLogConfig file log configuration
type FileLogConfig struct {
	Enable     bool   `yaml:"enable" mapstructure:"enable"`
	Path       string `yaml:"path" mapstructure:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// ClientConfig outbound HTTP client configuration
type ClientConfig struct {
	Timeout               int    `yaml:"timeout" mapstructure:"timeout"`
	MaxIdleConns          int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost   int    `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost       int    `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host"`
	IdleConnTimeout       int    `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	ResponseHeaderTimeout int    `yaml:"response_header_timeout" mapstructure:"response_header_timeout"`
	TLSHandshakeTimeout   int    `yaml:"tls_handshake_timeout" mapstructure:"tls_handshake_timeout"`
	TLSInsecureSkipVerify bool   `yaml:"tls_insecure_skip_verify" mapstructure:"tls_insecure_skip_verify"`
	UserAgent             string `yaml:"user_agent" mapstructure:"user_agent"`
}

// HostsConfig upstream host family base URLs
type HostsConfig struct {
	Primary    string `yaml:"primary" mapstructure:"primary"`
	Statistics string `yaml:"statistics" mapstructure:"statistics"`
}

// RelayConfig one relay list entry, tried in listed order
type RelayConfig struct {
	Base string `yaml:"base" mapstructure:"base"`
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// CatalogConfig endpoint catalog parameters
type CatalogConfig struct {
	DefaultSeason string `yaml:"default_season" mapstructure:"default_season"`
}

// TraceConfig attempt trace persistence parameters
type TraceConfig struct {
	Enable     bool          `yaml:"enable" mapstructure:"enable"`
	Driver     string        `yaml:"driver" mapstructure:"driver"`
	Path       string        `yaml:"path" mapstructure:"path"`
	MaxRecords int           `yaml:"max_records" mapstructure:"max_records"`
	Retention  time.Duration `yaml:"retention" mapstructure:"retention"`
}

// ServeConfig local inspector server configuration
type ServeConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// OutputConfig controls CLI output style
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"`
	Color   bool   `yaml:"color" mapstructure:"color"`
	Silence bool   `yaml:"silence" mapstructure:"silence"`
}

// LoadConfig load configuration
// If v is nil, a new viper instance will be created
func LoadConfig(configPath string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	v.SetEnvPrefix("RINKTAP")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rinktap")
		v.AddConfigPath("/etc/rinktap")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Config file loaded: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Slice defaults don't survive Unmarshal; fall back to the built-in
	// relay list when the file names none.
	if len(config.Relays) == 0 {
		for _, e := range relay.DefaultEntries() {
			config.Relays = append(config.Relays, RelayConfig{Base: e.Base, Mode: e.Mode})
		}
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_logging.enable", false)
	v.SetDefault("log.file_logging.path", "./rinktap.log")
	v.SetDefault("log.file_logging.max_size_mb", 10)
	v.SetDefault("log.file_logging.max_backups", 5)
	v.SetDefault("log.file_logging.max_age_days", 30)
	v.SetDefault("log.file_logging.compress", true)

	v.SetDefault("client.timeout", 30)
	v.SetDefault("client.max_idle_conns", 200)
	v.SetDefault("client.max_idle_conns_per_host", 10)
	v.SetDefault("client.max_conns_per_host", 20)
	v.SetDefault("client.idle_conn_timeout", 90)
	v.SetDefault("client.response_header_timeout", 15)
	v.SetDefault("client.tls_handshake_timeout", 10)
	v.SetDefault("client.tls_insecure_skip_verify", false)
	v.SetDefault("client.user_agent", "rinktap/1.0")

	v.SetDefault("hosts.primary", "https://api-web.nhle.com/v1")
	v.SetDefault("hosts.statistics", "https://api.nhle.com/stats/rest/en")

	v.SetDefault("catalog.default_season", "20252026")

	v.SetDefault("trace.enable", false)
	v.SetDefault("trace.driver", "sqlite")
	v.SetDefault("trace.path", "./rinktap-trace.db")
	v.SetDefault("trace.max_records", 5000)
	v.SetDefault("trace.retention", time.Duration(0))

	v.SetDefault("serve.port", 38890)

	v.SetDefault("output.format", "console")
	v.SetDefault("output.color", true)
	v.SetDefault("output.silence", false)
}

var validLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {},
	"error": {}, "fatal": {}, "panic": {},
}

var validOutputFormats = map[string]struct{}{
	"console": {}, "json": {}, "yaml": {},
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if _, ok := validLogLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.FileLogging.Enable && strings.TrimSpace(c.Log.FileLogging.Path) == "" {
		return fmt.Errorf("log file path cannot be empty when file logging enabled")
	}

	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client timeout must be greater than zero")
	}

	for _, base := range []string{c.Hosts.Primary, c.Hosts.Statistics} {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("host base URL must be http(s): %s", base)
		}
	}

	if len(c.Relays) == 0 {
		return fmt.Errorf("relay list cannot be empty")
	}
	for i, r := range c.Relays {
		if strings.TrimSpace(r.Base) == "" {
			return fmt.Errorf("relay %d base URL cannot be empty", i)
		}
		if _, err := relay.ParseMode(r.Mode); err != nil {
			return fmt.Errorf("relay %d: %w", i, err)
		}
	}

	if c.Trace.Enable {
		switch driver := strings.ToLower(c.Trace.Driver); driver {
		case "", "sqlite", "sqlite3":
		default:
			return fmt.Errorf("unsupported trace driver: %s", c.Trace.Driver)
		}
		if strings.TrimSpace(c.Trace.Path) == "" {
			return fmt.Errorf("trace path cannot be empty when trace enabled")
		}
		if c.Trace.MaxRecords < 0 {
			return fmt.Errorf("trace max_records cannot be negative")
		}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve port must be between 1 and 65535")
	}

	if _, ok := validOutputFormats[strings.ToLower(c.Output.Format)]; !ok {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}

	return nil
}

// RelayEntries converts the configured relay list into relay entries.
func (c *Config) RelayEntries() []relay.Entry {
	entries := make([]relay.Entry, 0, len(c.Relays))
	for _, r := range c.Relays {
		entries = append(entries, relay.Entry{Base: r.Base, Mode: r.Mode})
	}
	return entries
}
