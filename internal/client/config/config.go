package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/flagx"
)

// Probe modes.
const (
	ProbeHTTP = "http"
	ProbeGRPC = "grpc"
)

// Config holds runtime settings for the catalog CLI.
//
// Fields:
//   - AppID: application id sent with every backend request.
//   - BackendURL: base URL of the backend (scheme and host).
//   - ProbeMode: how reachability is checked, "http" or "grpc".
//   - GRPCHealthAddr: host:port of the gRPC health service, grpc mode only.
//   - RequestTimeout: upper bound for a single backend request.
//   - PageSize: records requested per page when listing.
//   - SessionDB: SQLite file remembering the credential; "" keeps it in memory.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	AppID          string
	BackendURL     string
	ProbeMode      string
	GRPCHealthAddr string
	RequestTimeout time.Duration
	PageSize       int
	SessionDB      string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AppID = "potato-catalog"
	c.BackendURL = "http://localhost:1111"
	c.ProbeMode = ProbeHTTP
	c.GRPCHealthAddr = ""
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 50
	c.SessionDB = "spudcatalog.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.BackendURL)
	}
	if c.AppID == "" {
		return errors.New("app id is required")
	}
	switch c.ProbeMode {
	case ProbeHTTP:
	case ProbeGRPC:
		if c.GRPCHealthAddr == "" {
			return errors.New("grpc probe mode requires a health address")
		}
	default:
		return fmt.Errorf("unknown probe mode %q", c.ProbeMode)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
