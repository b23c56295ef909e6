package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/learnly/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   backend base URL
//	-f string   frontend base URL
//	-r int      access token renewal interval (in seconds)
//	-d string   data directory; empty keeps cookies in memory only
//	-l string   log level (debug, info, warn, error)
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-f", "-r", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.FrontendURL, "f", cfg.FrontendURL, "frontend base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	renewal := fs.Int("r", int(cfg.RenewalInterval.Seconds()), "access token renewal interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RenewalInterval = time.Duration(*renewal) * time.Second
}
