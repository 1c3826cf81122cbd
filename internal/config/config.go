// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file, a .env file
// and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Insecure defaults. They keep a fresh checkout runnable and are reported at startup.
const (
	DefaultSessionSecret = "moon_cafe_secret_change_me"
	DefaultAdminUsername = "mudur"
	DefaultAdminPassword = "1234"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// DatabaseDSN holds the database connection string, either a
	// postgres:// URL or sqlite://path.
	DatabaseDSN string `json:"database_dsn"`

	// SessionSecret signs the admin session cookie.
	SessionSecret string `json:"session_secret"`

	// AdminUsername and AdminPassword form the single operator credential.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// Currency is appended to prices on the public menu.
	Currency string `json:"currency"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// LoginRatePerMinute caps login attempts per client address; 0 disables the limit.
	LoginRatePerMinute int `json:"login_rate_per_minute"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`

	// StaticDir is served under /static/ (menu images); empty disables it.
	StaticDir string `json:"static_dir"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxy bool `json:"trust_proxy"`

	// HealthInterval is how often the database is pinged in the background.
	HealthInterval time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse parses the command-line flags, the optional JSON config file, the
// optional .env file and environment variables, in that order, and returns
// the resulting Options.
func Parse() (*Options, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (*Options, error) {
	options := &Options{}

	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "sqlite://cafe.db", "database DSN (postgres://... or sqlite://path)")
	fs.StringVar(&options.SessionSecret, "s", DefaultSessionSecret, "session cookie secret")
	fs.StringVar(&options.AdminUsername, "admin-user", DefaultAdminUsername, "admin username")
	fs.StringVar(&options.AdminPassword, "admin-password", DefaultAdminPassword, "admin password")
	fs.StringVar(&options.Currency, "currency", "TL", "currency suffix for menu prices")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.IntVar(&options.LoginRatePerMinute, "login-rate", 10, "login attempts per minute per client, 0 disables")
	fs.StringVar(&options.TLSCertFile, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&options.TLSKeyFile, "tls-key", "", "TLS key file")
	fs.StringVar(&options.StaticDir, "static", "static", "directory served under /static/")
	fs.BoolVar(&options.TrustProxy, "trust-proxy", false, "trust X-Forwarded-For and X-Real-IP headers")
	fs.DurationVar(&options.HealthInterval, "health-interval", 30*time.Second, "database health check interval")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Port = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		options.SessionSecret = v
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		options.AdminUsername = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		options.AdminPassword = v
	}
	if v := os.Getenv("CURRENCY"); v != "" {
		options.Currency = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}
	if v := os.Getenv("LOGIN_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE %q", v)
		}
		options.LoginRatePerMinute = n
	}
	if v := os.Getenv("TLS_CERT_FILE"); v != "" {
		options.TLSCertFile = v
	}
	if v := os.Getenv("TLS_KEY_FILE"); v != "" {
		options.TLSKeyFile = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		options.StaticDir = v
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUST_PROXY %q: %w", v, err)
		}
		options.TrustProxy = b
	}
	if v := os.Getenv("HEALTH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HEALTH_INTERVAL %q: %w", v, err)
		}
		options.HealthInterval = d
	}

	return options, nil
}

// TLSEnabled reports whether both certificate and key paths are configured.
func (o *Options) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}

// InsecureDefaults lists the settings still carrying their built-in values.
func (o *Options) InsecureDefaults() []string {
	var out []string
	if o.SessionSecret == DefaultSessionSecret {
		out = append(out, "SESSION_SECRET")
	}
	if o.AdminPassword == DefaultAdminPassword {
		out = append(out, "ADMIN_PASSWORD")
	}
	return out
}
