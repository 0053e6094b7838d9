package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/flagx"
)

var knownFlags = []string{"-a", "-app", "-g", "-t", "-db", "-l"}

// parseFlags populates selected Config fields from command-line flags.
// args are filtered with flagx.FilterArgs first, so flags owned by other
// parsers (-c/-config) do not cause errors here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AppID, "app", cfg.AppID, "application id")
	grpcAddr := fs.String("g", "", "gRPC health address (enables grpc probe mode)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDB, "db", cfg.SessionDB, "credential database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only explicitly given flags override, so a sub-second JSON timeout
	// survives when -t is absent.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "g":
			cfg.GRPCHealthAddr = *grpcAddr
			cfg.ProbeMode = ProbeGRPC
		}
	})
	return nil
}
