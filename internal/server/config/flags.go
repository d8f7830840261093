package config

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{"-a", "-x", "-S", "-d", "-r", "-w", "-n", "-s", "-t", "-f", "-l", "-m", "-i", "-p", "-g"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    HTTP bind address (e.g., ":8080")
//	-x string    API path prefix
//	-S string    storage backend: postgres, redis or memory
//	-d string    PostgreSQL DSN
//	-r string    Redis address
//	-w string    Redis password
//	-n int       Redis database number
//	-s string    JWT HMAC secret key
//	-t duration  token lifetime (e.g., "1h")
//	-f string    log format: json, text or console
//	-l string    log level
//	-m uint      argon2 memory, KiB
//	-i uint      argon2 iterations
//	-p uint      argon2 parallelism
//	-g duration  graceful shutdown timeout
//
// os.Args is first filtered with flagx.FilterArgs so that -c / -config and
// flags owned by other components do not break parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.APIPrefix, "x", config.APIPrefix, "API path prefix")
	fs.StringVar(&config.Storage, "S", config.Storage, "storage backend (postgres, redis, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json, text, console)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	memory := fs.Uint("m", uint(config.Argon2.Memory), "argon2 memory (KiB)")
	iterations := fs.Uint("i", uint(config.Argon2.Iterations), "argon2 iterations")
	parallelism := fs.Uint("p", uint(config.Argon2.Parallelism), "argon2 parallelism")

	fs.DurationVar(&config.ShutdownTimeout, "g", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *memory > math.MaxUint32 {
		return fmt.Errorf("argon2 memory %d exceeds %d KiB", *memory, uint32(math.MaxUint32))
	}
	if *iterations > math.MaxUint32 {
		return fmt.Errorf("argon2 iterations %d exceeds %d", *iterations, uint32(math.MaxUint32))
	}
	if *parallelism > math.MaxUint8 {
		return fmt.Errorf("argon2 parallelism %d exceeds %d", *parallelism, math.MaxUint8)
	}

	config.Argon2.Memory = uint32(*memory)
	config.Argon2.Iterations = uint32(*iterations)
	config.Argon2.Parallelism = uint8(*parallelism)
	return nil
}
