package mpoly

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jonathanmweiss/go-mpoly/monomial"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MPOLY_"

// Config carries the knobs shared by contexts and batch runners.
type Config struct {
	// Workers bounds the number of engine instances running at once in the
	// batch package.
	Workers int
	// InitialBits is the packing width of freshly created polynomials.
	InitialBits uint
	// LogLevel is a zerolog level name.
	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		Workers:     runtime.GOMAXPROCS(0),
		InitialBits: monomial.MinBits,
		LogLevel:    "warn",
	}
}

// ConfigFromEnv returns DefaultConfig overridden by MPOLY_WORKERS,
// MPOLY_INITIAL_BITS and MPOLY_LOG_LEVEL. Unparsable or out of range values
// are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.Workers = getEnvInt("WORKERS", cfg.Workers, 1, math.MaxInt)
	cfg.InitialBits = uint(getEnvInt("INITIAL_BITS", int(cfg.InitialBits), 1, monomial.MaxBits))
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)

	return cfg
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if _, ok := monomial.FixBits(c.InitialBits); !ok || c.InitialBits == 0 {
		return fmt.Errorf("initial bits must be in [1, 64], got %d", c.InitialBits)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}

	return defaultVal
}

// getEnvInt reads an integer in [lo, hi], falling back to defaultVal.
func getEnvInt(key string, defaultVal, lo, hi int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= lo && parsed <= hi {
			return parsed
		}
	}

	return defaultVal
}
