package config

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("SECRET (or JWT_SECRET) is required")

// Config centralises runtime configuration.
type Config struct {
	HTTPPort         string
	StorageDriver    string
	DatabaseURL      string
	DatabaseMaxConns int
	JWTSecret        string
	JWTIssuer        string
	JWTExpiry        time.Duration
	BcryptCost       int
	HashWorkers      int
	AllowedOrigins   []string
	ReadTimeoutSec   int
	WriteTimeoutSec  int
	IdleTimeoutSec   int
	LogLevel         string
	LogFormat        string
}

// Load reads configuration from the environment, after applying ./.env.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from the environment after applying the
// dotenv file at path. Variables already set in the environment win.
func LoadFrom(path string) (Config, error) {
	if err := loadDotEnv(path); err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}

	httpPort := getEnv("HTTP_PORT", "")
	if httpPort == "" {
		httpPort = getEnv("PORT", "3333")
	}

	cfg := Config{
		HTTPPort:         httpPort,
		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 0),
		JWTSecret:        firstNonEmpty(os.Getenv("SECRET"), os.Getenv("JWT_SECRET")),
		JWTIssuer:        getEnv("JWT_ISSUER", "authgate"),
		JWTExpiry:        getDurationEnv("JWT_EXPIRY", time.Hour),
		BcryptCost:       getIntEnv("BCRYPT_COST", 12),
		HashWorkers:      getIntEnv("HASH_WORKERS", 0),
		AllowedOrigins:   splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeoutSec:   getIntEnv("HTTP_READ_TIMEOUT", 15),
		WriteTimeoutSec:  getIntEnv("HTTP_WRITE_TIMEOUT", 15),
		IdleTimeoutSec:   getIntEnv("HTTP_IDLE_TIMEOUT", 60),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRY must be positive, got %s", cfg.JWTExpiry)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		cfg.DatabaseURL = resolveDatabaseURL()
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return []string{"*"}
	}
	return parts
}

func resolveDatabaseURL() string {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL"} {
		if coerced := coerceDatabaseURL(os.Getenv(key)); coerced != "" {
			return coerced
		}
	}

	if path := os.Getenv("DATABASE_URL_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if coerced := coerceDatabaseURL(string(data)); coerced != "" {
				return coerced
			}
		}
	}

	host := firstNonEmpty(os.Getenv("PGHOST"), os.Getenv("POSTGRES_HOST"), os.Getenv("DATABASE_HOST"))
	user := firstNonEmpty(os.Getenv("PGUSER"), os.Getenv("POSTGRES_USER"), os.Getenv("DB_USER"))
	if host == "" || user == "" {
		return ""
	}
	password := firstNonEmpty(os.Getenv("PGPASSWORD"), os.Getenv("POSTGRES_PASSWORD"), os.Getenv("DB_PASSWORD"))
	database := firstNonEmpty(os.Getenv("PGDATABASE"), os.Getenv("POSTGRES_DB"), user)
	port := firstNonEmpty(os.Getenv("PGPORT"), os.Getenv("POSTGRES_PORT"), "5432")
	sslMode := firstNonEmpty(os.Getenv("PGSSLMODE"), "require")

	dsn := &neturl.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
		User:   neturl.User(user),
	}
	if password != "" {
		dsn.User = neturl.UserPassword(user, password)
	}
	query := dsn.Query()
	query.Set("sslmode", sslMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

func coerceDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"):
		return raw
	case strings.HasPrefix(raw, "postgresql://"):
		return "postgres://" + strings.TrimPrefix(raw, "postgresql://")
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf(".env line %d: missing '='", lineNum)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if key == "" {
			return fmt.Errorf(".env line %d: empty key", lineNum)
		}

		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf(".env line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}
