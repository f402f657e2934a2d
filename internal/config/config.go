// Package config loads command line settings. Every flag defaults to a
// FITBYTE_* environment variable, and a .env file in the working directory
// is read first when present.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys
const (
	EnvPort             = "FITBYTE_PORT"
	EnvDB               = "FITBYTE_DB"
	EnvAdminPassword    = "FITBYTE_ADMIN_PASSWORD"
	EnvLogLevel         = "FITBYTE_LOG_LEVEL"
	EnvLogFormat        = "FITBYTE_LOG_FORMAT"
	EnvBaseURL          = "FITBYTE_BASE_URL"
	EnvSnapshotInterval = "FITBYTE_SNAPSHOT_INTERVAL"
	EnvServer           = "FITBYTE_SERVER"
	EnvState            = "FITBYTE_STATE"
	EnvRedisURL         = "FITBYTE_REDIS_URL"
)

// DefaultSnapshotInterval is how often watched products are rebroadcast
const DefaultSnapshotInterval = 30 * time.Second

// ServerConfig configures cmd/fitbyte
type ServerConfig struct {
	Port             int
	DBPath           string
	AdminPassword    string
	LogLevel         string
	LogFormat        string
	BaseURL          string
	SnapshotInterval time.Duration
	NoKeyboard       bool
	ShowVersion      bool
}

// Addr is the listen address for the configured port
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ShopConfig configures cmd/fitbyte-shop
type ShopConfig struct {
	Server    string
	Product   string
	Size      string
	Color     string
	Quantity  int
	Email     string
	Password  string
	Action    string
	StatePath string
	RedisURL  string
	LogLevel  string
	LogFormat string
}

// Actions accepted by the shop client
const (
	ActionShow   = "show"
	ActionAdd    = "add"
	ActionBuy    = "buy"
	ActionJoin   = "join"
	ActionLeave  = "leave"
	ActionStatus = "status"
	ActionWatch  = "watch"
)

var Actions = []string{ActionShow, ActionAdd, ActionBuy, ActionJoin, ActionLeave, ActionStatus, ActionWatch}

// LoadEnv reads .env files into the process environment. Variables that are
// already set win. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadServer parses server flags from args
func LoadServer(args []string, output io.Writer) (ServerConfig, error) {
	var cfg ServerConfig
	fs := flag.NewFlagSet("fitbyte", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.Port, "port", envInt(EnvPort, 8081), "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", envString(EnvDB, "fitbyte.db"), "SQLite database path")
	fs.StringVar(&cfg.AdminPassword, "adminpw", envString(EnvAdminPassword, ""), "Admin password (auto-generated if not set)")
	fs.StringVar(&cfg.LogLevel, "loglevel", envString(EnvLogLevel, "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "logformat", envString(EnvLogFormat, "text"), "Log format (text, json)")
	fs.StringVar(&cfg.BaseURL, "baseurl", envString(EnvBaseURL, ""), "Public base URL for QR codes and checkout links")
	fs.DurationVar(&cfg.SnapshotInterval, "snapshot-interval", envDuration(EnvSnapshotInterval, DefaultSnapshotInterval), "Stock rebroadcast interval (0 disables)")
	fs.BoolVar(&cfg.NoKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.SnapshotInterval < 0 {
		return cfg, fmt.Errorf("snapshot interval cannot be negative")
	}
	return cfg, nil
}

// LoadShop parses shop client flags from args
func LoadShop(args []string, output io.Writer) (ShopConfig, error) {
	var cfg ShopConfig
	fs := flag.NewFlagSet("fitbyte-shop", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Server, "server", envString(EnvServer, "http://localhost:8081"), "Storefront server URL")
	fs.StringVar(&cfg.Product, "product", "", "Product slug")
	fs.StringVar(&cfg.Size, "size", "", "Size to select")
	fs.StringVar(&cfg.Color, "color", "", "Color to select")
	fs.IntVar(&cfg.Quantity, "qty", 1, "Quantity")
	fs.StringVar(&cfg.Email, "email", "", "Customer or waitlist email")
	fs.StringVar(&cfg.Password, "password", "", "Customer password (logs in when set)")
	fs.StringVar(&cfg.Action, "action", ActionShow, "show, add, buy, join, leave, status or watch")
	fs.StringVar(&cfg.StatePath, "state", envString(EnvState, "fitbyte-shop.db"), "SQLite file for client state")
	fs.StringVar(&cfg.RedisURL, "redis", envString(EnvRedisURL, ""), "Redis URL for client state (overrides -state)")
	fs.StringVar(&cfg.LogLevel, "loglevel", envString(EnvLogLevel, "warn"), "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "logformat", envString(EnvLogFormat, "text"), "Log format (text, json)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Product == "" {
		return cfg, fmt.Errorf("-product is required")
	}
	if !validAction(cfg.Action) {
		return cfg, fmt.Errorf("unknown action %q", cfg.Action)
	}
	if cfg.Quantity < 1 {
		return cfg, fmt.Errorf("-qty must be at least 1")
	}
	return cfg, nil
}

func validAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// envInt falls back on unparseable values; the flag still reports bad input
func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
