package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/agenda/internal/credential"
)

var agendaVariables = []string{
	"AGENDA_ENV_FILE",
	"AGENDA_HTTP_ADDR",
	"AGENDA_STORE",
	"AGENDA_STORE_PATH",
	"AGENDA_STORE_KEY",
	"AGENDA_REDIS_ADDR",
	"AGENDA_REDIS_PASSWORD",
	"AGENDA_REDIS_DB",
	"AGENDA_CREDENTIAL_SCHEME",
	"AGENDA_TIMEZONE",
	"AGENDA_LOG_LEVEL",
	"AGENDA_CORS_ORIGINS",
	"AGENDA_LOGIN_RATE",
}

// clearEnvironment unsets every agenda variable for the duration of the test
// and points the loader at an env file that does not exist.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range agendaVariables {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
	t.Setenv("AGENDA_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPAddr != "127.0.0.1:8080" {
			t.Fatalf("expected loopback default address, got %q", cfg.HTTPAddr)
		}
		if cfg.Store != StoreFile || cfg.StorePath != DefaultFileDir || cfg.StoreKey != "app_agenda_v2" {
			t.Fatalf("unexpected store defaults %+v", cfg)
		}
		if cfg.CredentialScheme != credential.SchemeArgon2id {
			t.Fatalf("expected argon2id by default, got %q", cfg.CredentialScheme)
		}
		if cfg.Location != time.Local || cfg.LogLevel != slog.LevelInfo || cfg.LoginRate != 10 {
			t.Fatalf("unexpected ambient defaults %+v", cfg)
		}
		if len(cfg.CORSOrigins) != 0 {
			t.Fatalf("expected CORS disabled by default, got %v", cfg.CORSOrigins)
		}
	})

	t.Run("sqlite store defaults its DSN", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("AGENDA_STORE", "SQLite")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.Store != StoreSQLite || cfg.StorePath != DefaultSQLiteDSN {
			t.Fatalf("unexpected sqlite settings %+v", cfg)
		}
	})

	t.Run("errors when the redis address is missing", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("AGENDA_STORE", "redis")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "missing required environment variables: AGENDA_REDIS_ADDR"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("AGENDA_STORE", "postgres")
		t.Setenv("AGENDA_CREDENTIAL_SCHEME", "md5")
		t.Setenv("AGENDA_TIMEZONE", "Mars/Olympus")
		t.Setenv("AGENDA_LOG_LEVEL", "loud")
		t.Setenv("AGENDA_LOGIN_RATE", "0")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment values: AGENDA_STORE, AGENDA_CREDENTIAL_SCHEME, AGENDA_TIMEZONE, AGENDA_LOG_LEVEL, AGENDA_LOGIN_RATE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses redis and ambient fields", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("AGENDA_HTTP_ADDR", ":9090")
		t.Setenv("AGENDA_STORE", "redis")
		t.Setenv("AGENDA_REDIS_ADDR", "localhost:6379")
		t.Setenv("AGENDA_REDIS_PASSWORD", "pw")
		t.Setenv("AGENDA_REDIS_DB", "2")
		t.Setenv("AGENDA_STORE_KEY", "clinic")
		t.Setenv("AGENDA_CREDENTIAL_SCHEME", "legacy")
		t.Setenv("AGENDA_TIMEZONE", "America/Sao_Paulo")
		t.Setenv("AGENDA_LOG_LEVEL", "debug")
		t.Setenv("AGENDA_CORS_ORIGINS", "http://localhost:5173, ,https://agenda.example.com")
		t.Setenv("AGENDA_LOGIN_RATE", "5")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPAddr != ":9090" || cfg.RedisAddr != "localhost:6379" || cfg.RedisPassword != "pw" || cfg.RedisDB != 2 {
			t.Fatalf("unexpected redis settings %+v", cfg)
		}
		if cfg.StoreKey != "clinic" || cfg.CredentialScheme != credential.SchemeLegacy {
			t.Fatalf("unexpected key or scheme %+v", cfg)
		}
		if cfg.Location.String() != "America/Sao_Paulo" || cfg.LogLevel != slog.LevelDebug || cfg.LoginRate != 5 {
			t.Fatalf("unexpected ambient settings %+v", cfg)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://agenda.example.com" {
			t.Fatalf("unexpected CORS origins %v", cfg.CORSOrigins)
		}
	})

	t.Run("reads the env file without overriding the environment", func(t *testing.T) {
		clearEnvironment(t)
		path := filepath.Join(t.TempDir(), "agenda.env")
		content := "AGENDA_STORE=memory\nAGENDA_HTTP_ADDR=127.0.0.1:7000\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("AGENDA_ENV_FILE", path)
		t.Setenv("AGENDA_HTTP_ADDR", "127.0.0.1:7001")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.Store != StoreMemory {
			t.Fatalf("expected store from env file, got %q", cfg.Store)
		}
		if cfg.HTTPAddr != "127.0.0.1:7001" {
			t.Fatalf("expected environment to win over env file, got %q", cfg.HTTPAddr)
		}
	})
}
