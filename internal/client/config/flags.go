package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/tgcloud/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   storage backend: telegram or s3
//	-s string   session file
//	-d string   upload history file
//	-p string   default phone number for auth
//	-l string   log level
//
// args is filtered with flagx.FilterArgs so flags owned by other stages
// (-c/-config) do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-b", "-s", "-d", "-p", "-l"})

	fs := flag.NewFlagSet("tgcloud", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (telegram, s3)")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session file")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "upload history file")
	fs.StringVar(&cfg.Phone, "p", cfg.Phone, "default phone number")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	return fs.Parse(args)
}
