// Package config loads runtime configuration for the catalog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    backend base URL
//	-app string  application id
//	-g string    gRPC health address; switches the probe to grpc mode
//	-t int       request timeout (seconds)
//	-db string   credential database path ("" keeps the session in memory)
//	-l string    log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "app_id": "potato-catalog",
//	  "backend_url": "http://localhost:1111",
//	  "probe_mode": "http",
//	  "grpc_health_addr": "",
//	  "request_timeout": "10s",
//	  "page_size": 50,
//	  "session_db": "spudcatalog.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// This package does not read environment variables.
package config
