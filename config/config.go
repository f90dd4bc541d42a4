package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverSQLite   = "sqlite3"
)

// Defaults applied when neither the environment nor the config file sets a value.
const (
	DefaultDriver       = DriverMySQL
	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432
	DefaultEnvFile      = ".env"
	DefaultSSLMode      = "disable"
	maxPort             = 65535
)

// Environment variables read by Load.
const (
	EnvDriver   = "DB_DRIVER"
	EnvHost     = "DB_HOST"
	EnvName     = "DB_NAME"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASS"
	EnvPort     = "DB_PORT"
	EnvSchema   = "DB_SCHEMA"
	EnvSSLMode  = "DB_SSLMODE"
)

// sslModes lists the sslmode values each Postgres driver accepts.
var sslModes = map[string][]string{
	DriverPostgres: {"disable", "require", "verify-ca", "verify-full"},
	DriverPGX:      {"disable", "allow", "prefer", "require", "verify-ca", "verify-full"},
}

// Config holds the database connection settings.
type Config struct {
	Driver   string `koanf:"db_driver"`
	Host     string `koanf:"db_host"`
	Name     string `koanf:"db_name"`
	User     string `koanf:"db_user"`
	Password string `koanf:"db_pass"`
	Port     int    `koanf:"db_port"`
	Schema   string `koanf:"db_schema"`
	SSLMode  string `koanf:"db_sslmode"`
}

// Configuration validation errors.
var (
	ErrMissingDBName     = errors.New("DB_NAME is required")
	ErrMissingDBHost     = errors.New("DB_HOST is required")
	ErrInvalidDBPort     = errors.New("DB_PORT must be a valid port number")
	ErrUnsupportedDriver = errors.New("DB_DRIVER must be one of mysql, postgres, pgx, sqlite3")
	ErrInvalidSSLMode    = errors.New("DB_SSLMODE is not supported by the selected driver")
	ErrPasswordNoUser    = errors.New("DB_PASS is set but DB_USER is empty")
	ErrLoadingEnvFailed  = errors.New("loading env file failed")
	ErrLoadingFileFailed = errors.New("loading config file failed")
)

// LoadEnvFile exports the variables of a dotenv file into the process environment.
// Variables that are already set keep their value. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return errors.Join(ErrLoadingEnvFailed, fmt.Errorf("%s: %w", path, err))
	}

	return nil
}

// Load reads configuration from environment variables and an optional YAML config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{errors.Join(ErrLoadingFileFailed, fmt.Errorf("%s: %w", configFilePath, err))}
		}
	}

	driver := getEnvOrDefault(EnvDriver, k.String("db_driver"), DefaultDriver)

	port, portErr := getEnvIntOrDefault(EnvPort, k.Int("db_port"), defaultPort(driver))
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
		port = defaultPort(driver)
	}

	cfg := &Config{
		Driver:   driver,
		Host:     getEnvOrKoanf(EnvHost, k, "db_host"),
		Name:     getEnvOrKoanf(EnvName, k, "db_name"),
		User:     getEnvOrKoanf(EnvUser, k, "db_user"),
		Password: getEnvOrKoanf(EnvPassword, k, "db_pass"),
		Port:     port,
		Schema:   getEnvOrKoanf(EnvSchema, k, "db_schema"),
		SSLMode:  getEnvOrDefault(EnvSSLMode, k.String("db_sslmode"), defaultSSLMode(driver)),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks the settings the selected driver needs and returns every problem found.
func (c *Config) Validate() []error {
	var errs []error

	switch c.Driver {
	case DriverMySQL, DriverPostgres, DriverPGX, DriverSQLite:
	default:
		return append(errs, fmt.Errorf("%w, got %q", ErrUnsupportedDriver, c.Driver))
	}

	if c.Name == "" {
		errs = append(errs, ErrMissingDBName)
	}

	if c.Driver == DriverSQLite {
		return errs
	}

	if c.Host == "" {
		errs = append(errs, ErrMissingDBHost)
	}

	if c.Port <= 0 || c.Port > maxPort {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidDBPort, c.Port))
	}

	if c.Password != "" && c.User == "" {
		errs = append(errs, ErrPasswordNoUser)
	}

	if modes, ok := sslModes[c.Driver]; ok && c.SSLMode != "" && !slices.Contains(modes, c.SSLMode) {
		errs = append(errs, fmt.Errorf("%w, got %q for %s", ErrInvalidSSLMode, c.SSLMode, c.Driver))
	}

	return errs
}

func defaultPort(driver string) int {
	switch driver {
	case DriverPostgres, DriverPGX:
		return DefaultPostgresPort
	case DriverMySQL:
		return DefaultMySQLPort
	default:
		return 0
	}
}

func defaultSSLMode(driver string) string {
	if _, ok := sslModes[driver]; ok {
		return DefaultSSLMode
	}

	return ""
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidDBPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}
