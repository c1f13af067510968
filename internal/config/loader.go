package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/agenda/internal/credential"
	"github.com/example/agenda/internal/logging"
)

// StoreKind selects the backend holding the agenda document.
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
	StoreRedis  StoreKind = "redis"
	StoreMemory StoreKind = "memory"
)

// Config captures environment driven configuration values for the agenda.
type Config struct {
	HTTPAddr string
	Store    StoreKind
	// StorePath is the directory of the file store or the SQLite DSN.
	StorePath string
	StoreKey  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CredentialScheme string
	Location         *time.Location
	LogLevel         slog.Level

	CORSOrigins []string
	// LoginRate is the number of login attempts allowed per remote address
	// each minute.
	LoginRate int
}

// Default store locations when AGENDA_STORE_PATH is not set.
const (
	DefaultFileDir   = "agenda-data"
	DefaultSQLiteDSN = "file:agenda.db"
)

// Load reads an optional .env file (AGENDA_ENV_FILE, default ".env") and then
// parses configuration values from the process environment. Variables already
// present in the environment win over the file.
//
// Defaults are applied for optional fields; every missing or invalid value is
// reported in a single error.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("AGENDA_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}

	cfg := Config{
		HTTPAddr:         "127.0.0.1:8080",
		Store:            StoreFile,
		StoreKey:         "app_agenda_v2",
		CredentialScheme: credential.SchemeArgon2id,
		Location:         time.Local,
		LogLevel:         slog.LevelInfo,
		LoginRate:        10,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if addr := strings.TrimSpace(os.Getenv("AGENDA_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}

	if kind := strings.ToLower(strings.TrimSpace(os.Getenv("AGENDA_STORE"))); kind != "" {
		switch StoreKind(kind) {
		case StoreFile, StoreSQLite, StoreRedis, StoreMemory:
			cfg.Store = StoreKind(kind)
		default:
			invalid = append(invalid, "AGENDA_STORE")
		}
	}

	cfg.StorePath = strings.TrimSpace(os.Getenv("AGENDA_STORE_PATH"))
	if cfg.StorePath == "" {
		switch cfg.Store {
		case StoreFile:
			cfg.StorePath = DefaultFileDir
		case StoreSQLite:
			cfg.StorePath = DefaultSQLiteDSN
		}
	}

	if key := strings.TrimSpace(os.Getenv("AGENDA_STORE_KEY")); key != "" {
		cfg.StoreKey = key
	}

	if cfg.Store == StoreRedis {
		if addr := strings.TrimSpace(os.Getenv("AGENDA_REDIS_ADDR")); addr == "" {
			missing = append(missing, "AGENDA_REDIS_ADDR")
		} else {
			cfg.RedisAddr = addr
		}
		cfg.RedisPassword = os.Getenv("AGENDA_REDIS_PASSWORD")
		if dbValue := strings.TrimSpace(os.Getenv("AGENDA_REDIS_DB")); dbValue != "" {
			db, err := strconv.Atoi(dbValue)
			if err != nil || db < 0 {
				invalid = append(invalid, "AGENDA_REDIS_DB")
			} else {
				cfg.RedisDB = db
			}
		}
	}

	if scheme := strings.ToLower(strings.TrimSpace(os.Getenv("AGENDA_CREDENTIAL_SCHEME"))); scheme != "" {
		if _, err := credential.New(scheme); err != nil {
			invalid = append(invalid, "AGENDA_CREDENTIAL_SCHEME")
		} else {
			cfg.CredentialScheme = scheme
		}
	}

	if tz := strings.TrimSpace(os.Getenv("AGENDA_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "AGENDA_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if levelValue := os.Getenv("AGENDA_LOG_LEVEL"); strings.TrimSpace(levelValue) != "" {
		level, err := logging.ParseLevel(levelValue)
		if err != nil {
			invalid = append(invalid, "AGENDA_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if origins := strings.TrimSpace(os.Getenv("AGENDA_CORS_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	if rateValue := strings.TrimSpace(os.Getenv("AGENDA_LOGIN_RATE")); rateValue != "" {
		perMinute, err := strconv.Atoi(rateValue)
		if err != nil || perMinute <= 0 {
			invalid = append(invalid, "AGENDA_LOGIN_RATE")
		} else {
			cfg.LoginRate = perMinute
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
