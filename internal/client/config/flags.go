package config

import (
	"github.com/spf13/pflag"
)

// Flags binds the CLI's persistent flags. Call Load after the flag set has
// been parsed.
type Flags struct {
	fs     *pflag.FlagSet
	path   string
	values Config
}

// RegisterFlags adds the configuration flags to fs with defaults shown in
// the help text.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	var def Config
	def.LoadDefaults()

	f := &Flags{fs: fs}
	fs.StringVarP(&f.path, "config", "c", "", "path to a JSON or YAML config file")
	fs.StringVarP(&f.values.ServerURL, "server", "s", def.ServerURL, "API base URL")
	fs.StringVar(&f.values.StoragePath, "storage", def.StoragePath, "session database file")
	fs.DurationVar(&f.values.RequestTimeout, "timeout", def.RequestTimeout, "HTTP request timeout")
	fs.DurationVar(&f.values.ExpiryCheckInterval, "expiry-check", def.ExpiryCheckInterval, "token expiry check interval")
	fs.StringVar(&f.values.LogFormat, "log-format", def.LogFormat, "log format: json, text or console")
	fs.StringVar(&f.values.LogLevel, "log-level", def.LogLevel, "log level")
	return f
}

// Load builds the effective config: defaults, then the config file, then the
// flags the user actually set.
func (f *Flags) Load() (*Config, error) {
	c := &Config{}
	c.LoadDefaults()

	if f.path != "" {
		if err := c.LoadFile(f.path); err != nil {
			return nil, err
		}
	}

	// VisitAll with Changed rather than Visit: cobra parses persistent flags
	// through the subcommand's flag set, which shares the *pflag.Flag values
	// but not the record of which were set.
	f.fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		switch fl.Name {
		case "server":
			c.ServerURL = f.values.ServerURL
		case "storage":
			c.StoragePath = f.values.StoragePath
		case "timeout":
			c.RequestTimeout = f.values.RequestTimeout
		case "expiry-check":
			c.ExpiryCheckInterval = f.values.ExpiryCheckInterval
		case "log-format":
			c.LogFormat = f.values.LogFormat
		case "log-level":
			c.LogLevel = f.values.LogLevel
		}
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
