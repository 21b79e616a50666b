package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceURL   string
	Timeout      time.Duration
	Port         int
	DatabaseURL  string
	DatabaseType string
	StaffKeySalt string
	AuditSalt    string
}

// ParseFlags validates flags, falling back to environment variables
// (a .env file is loaded first when present)
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine; explicit env and flags still apply
	_ = godotenv.Load()

	fs := flag.NewFlagSet("guildvote", flag.ContinueOnError)

	// Client config (can be CLI args or env)
	fs.StringVar(&cfg.ServiceURL, "s", "", "Election service base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request timeout")

	// Demo service config
	fs.IntVar(&cfg.Port, "p", 0, "Demo service port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.StaffKeySalt, "staff-salt", "", "Staff key salt (prefer env)")
	fs.StringVar(&cfg.AuditSalt, "audit-salt", "", "Audit IP-hash salt (prefer env)")

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
			cfg.Port = 4117 // default
		}
	}

	if cfg.ServiceURL == "" {
		cfg.ServiceURL = os.Getenv("SERVICE_URL")
	}
	if cfg.ServiceURL == "" {
		cfg.ServiceURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	if cfg.Timeout == 0 {
		if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
			timeout, err := time.ParseDuration(timeoutStr)
			if err != nil {
				return Config{}, errors.New("invalid REQUEST_TIMEOUT env variable")
			}
			cfg.Timeout = timeout
		} else {
			cfg.Timeout = 10 * time.Second // a hung call must not hang the voter
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:guildvote.db"
	}

	if cfg.StaffKeySalt == "" {
		cfg.StaffKeySalt = os.Getenv("STAFF_KEY_SALT")
	}
	if cfg.AuditSalt == "" {
		cfg.AuditSalt = os.Getenv("AUDIT_SALT")
	}

	return cfg, nil
}

// RequireServiceSecrets checks the settings only the demo service needs.
// Client subcommands never touch the salts, so ParseFlags leaves them optional.
func (c Config) RequireServiceSecrets() error {
	if c.StaffKeySalt == "" {
		return errors.New("STAFF_KEY_SALT required")
	}
	if c.AuditSalt == "" {
		return errors.New("AUDIT_SALT required")
	}
	return nil
}
