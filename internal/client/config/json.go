package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/spudcatalog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an absent key from an explicit zero value.
type JsonConfig struct {
	AppID          *string         `json:"app_id"`
	BackendURL     *string         `json:"backend_url"`
	ProbeMode      *string         `json:"probe_mode"`
	GRPCHealthAddr *string         `json:"grpc_health_addr"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	PageSize       *int            `json:"page_size"`
	SessionDB      *string         `json:"session_db"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
}

// parseJson overlays cfg with the values present in the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.AppID, jc.AppID)
	setIf(&cfg.BackendURL, jc.BackendURL)
	setIf(&cfg.ProbeMode, jc.ProbeMode)
	setIf(&cfg.GRPCHealthAddr, jc.GRPCHealthAddr)
	setIf(&cfg.PageSize, jc.PageSize)
	setIf(&cfg.SessionDB, jc.SessionDB)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
