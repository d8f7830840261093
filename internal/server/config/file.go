package config

import (
	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. The same tags
// serve JSON and YAML files. Keys that are absent leave the current value
// untouched.
type FileConfig struct {
	HTTPAddr        string         `json:"http_addr" yaml:"http_addr"`
	APIPrefix       *string        `json:"api_prefix" yaml:"api_prefix"`
	Storage         string         `json:"storage" yaml:"storage"`
	DatabaseDSN     string         `json:"database_dsn" yaml:"database_dsn"`
	RedisAddr       string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string         `json:"redis_password" yaml:"redis_password"`
	RedisDB         *int           `json:"redis_db" yaml:"redis_db"`
	SecretKey       string         `json:"secret_key" yaml:"secret_key"`
	TokenTTL        timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	Argon2          argon2File     `json:"argon2" yaml:"argon2"`
	LogFormat       string         `json:"log_format" yaml:"log_format"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type argon2File struct {
	MemoryKiB   uint32 `json:"memory_kib" yaml:"memory_kib"`
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	Parallelism uint8  `json:"parallelism" yaml:"parallelism"`
	KeyLength   uint32 `json:"key_length" yaml:"key_length"`
}

// parseFile overlays the file named by -c / -config, if any.
func parseFile(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	c := &FileConfig{}
	if err := flagx.DecodeConfigFile(path, c); err != nil {
		return err
	}
	c.apply(config)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.APIPrefix != nil {
		config.APIPrefix = *c.APIPrefix
	}
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.Argon2.MemoryKiB != 0 {
		config.Argon2.Memory = c.Argon2.MemoryKiB
	}
	if c.Argon2.Iterations != 0 {
		config.Argon2.Iterations = c.Argon2.Iterations
	}
	if c.Argon2.Parallelism != 0 {
		config.Argon2.Parallelism = c.Argon2.Parallelism
	}
	if c.Argon2.KeyLength != 0 {
		config.Argon2.KeyLength = c.Argon2.KeyLength
	}
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
