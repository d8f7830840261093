package config

import (
	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// FileConfig is the on-disk shape of the CLI configuration.
type FileConfig struct {
	ServerURL           string         `json:"server_url" yaml:"server_url"`
	StoragePath         string         `json:"storage_path" yaml:"storage_path"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	ExpiryCheckInterval timex.Duration `json:"expiry_check_interval" yaml:"expiry_check_interval"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
}

// LoadFile overlays the non-empty values of the file at path onto c.
func (c *Config) LoadFile(path string) error {
	f := &FileConfig{}
	if err := flagx.DecodeConfigFile(path, f); err != nil {
		return err
	}

	setString(&c.ServerURL, f.ServerURL)
	setString(&c.StoragePath, f.StoragePath)
	if f.RequestTimeout.Duration != 0 {
		c.RequestTimeout = f.RequestTimeout.Duration
	}
	if f.ExpiryCheckInterval.Duration != 0 {
		c.ExpiryCheckInterval = f.ExpiryCheckInterval.Duration
	}
	setString(&c.LogFormat, f.LogFormat)
	setString(&c.LogLevel, f.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
