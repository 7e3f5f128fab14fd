package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	StoreBackend string // "file", "sqlite", or "postgres"
	DatabaseURL  string // postgres URL or sqlite path
	StoreDir     string // session directory for the file backend
	BaseURL      string // public base URL for shareable join links
}

// ParseFlags validates flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("matelda-server", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreBackend, "b", "", "Store backend (file, sqlite, or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres) or database path (sqlite)")
	fs.StringVar(&cfg.StoreDir, "dir", "", "Session directory for the file backend")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Base URL used to build join links")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3525 // default
		}
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = os.Getenv("STORE_BACKEND")
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "sqlite"
	}

	switch cfg.StoreBackend {
	case "file":
		if cfg.StoreDir == "" {
			cfg.StoreDir = os.Getenv("STORE_DIR")
		}
		if cfg.StoreDir == "" {
			cfg.StoreDir = "./sessions"
		}
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		}
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "matelda.db"
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		}
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unknown store backend %q (want file, sqlite, or postgres)", cfg.StoreBackend)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	return cfg, nil
}
