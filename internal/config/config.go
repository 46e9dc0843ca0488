package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"hardware_shop_backend/internal/models"
	"hardware_shop_backend/pkg/utils"
)

// DevJWTSecret is the signing key used when JWT_SECRET is not set. It is refused in production.
const DevJWTSecret = "hardware-shop-dev-secret-change-me"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Business BusinessConfig
}

// AppConfig holds identity of the deployment
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ReuseDeletedUniqueValues lets a new record take the code or email of a soft-deleted one.
	ReuseDeletedUniqueValues bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AdminConfig names the account created at startup when no user has that email yet.
// An empty Email disables the bootstrap.
type AdminConfig struct {
	Email    string
	Password string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// BusinessConfig holds the shop settings
type BusinessConfig struct {
	Currency           string
	Timezone           string
	AllowNegativeStock bool
	LowStockThreshold  int
	DefaultTaxRate     decimal.Decimal
}

// Load loads the application configuration from environment variables,
// after reading a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.ToLower(utils.Getenv("APP_ENV", "development"))
	taxRate, err := decimal.NewFromString(utils.Getenv("DEFAULT_TAX_RATE", "0"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE: %w", err)
	}

	return &Config{
		App: AppConfig{
			Name:    utils.Getenv("APP_NAME", "Hardware Shop Backend"),
			Env:     env,
			Version: "1.0.0",
		},
		Server: ServerConfig{
			Port:               utils.Getenv("PORT", "8080"),
			CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:                   strings.ToLower(utils.Getenv("STORE_DRIVER", DriverPostgres)),
			Host:                     utils.Getenv("DB_HOST", "localhost"),
			Port:                     utils.Getenv("DB_PORT", "5432"),
			User:                     utils.Getenv("DB_USER", "postgres"),
			Password:                 utils.Getenv("DB_PASSWORD", "postgres"),
			Name:                     utils.Getenv("DB_NAME", "hardware_shop"),
			SSLMode:                  utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:             utils.GetenvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:             utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:          utils.GetenvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ReuseDeletedUniqueValues: utils.GetenvBool("REUSE_DELETED_UNIQUE_VALUES", true),
		},
		JWT: JWTConfig{
			Secret: utils.Getenv("JWT_SECRET", DevJWTSecret),
			TTL:    utils.GetenvDuration("JWT_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Email:    utils.Getenv("ADMIN_EMAIL", ""),
			Password: utils.Getenv("ADMIN_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:  utils.Getenv("LOG_LEVEL", "info"),
			Pretty: env != "production",
		},
		Metrics: MetricsConfig{
			Prefix: utils.Getenv("METRICS_PREFIX", "hardware_shop"),
		},
		Business: BusinessConfig{
			Currency:           utils.Getenv("CURRENCY", "LKR"),
			Timezone:           utils.Getenv("TIMEZONE", "Asia/Colombo"),
			AllowNegativeStock: utils.GetenvBool("ALLOW_NEGATIVE_STOCK", false),
			LowStockThreshold:  utils.GetenvInt("LOW_STOCK_THRESHOLD", 10),
			DefaultTaxRate:     taxRate,
		},
	}, nil
}

// Settings returns the business settings shared with the services and clients.
func (b BusinessConfig) Settings() models.ShopSettings {
	return models.ShopSettings{
		Currency:           b.Currency,
		Timezone:           b.Timezone,
		AllowNegativeStock: b.AllowNegativeStock,
		LowStockThreshold:  b.LowStockThreshold,
		DefaultTaxRate:     b.DefaultTaxRate,
	}
}

// Location returns the shop timezone, or UTC when TIMEZONE does not name one.
func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Validate reports every setting that prevents the service from starting.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			errs = append(errs, errors.New("DB_HOST, DB_NAME and DB_USER are required for the postgres driver"))
		}
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_DRIVER=memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver))
	}
	if c.IsProduction() && c.JWT.Secret == DevJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < 8 {
		errs = append(errs, errors.New("ADMIN_PASSWORD must be at least 8 characters when ADMIN_EMAIL is set"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if c.Business.LowStockThreshold < 0 {
		errs = append(errs, errors.New("LOW_STOCK_THRESHOLD cannot be negative"))
	}
	if c.Business.DefaultTaxRate.IsNegative() {
		errs = append(errs, errors.New("DEFAULT_TAX_RATE cannot be negative"))
	}
	return errors.Join(errs...)
}

// Summary returns the settings safe to log. Secrets are left out.
func (c *Config) Summary() map[string]interface{} {
	return map[string]interface{}{
		"app":                         c.App.Name,
		"env":                         c.App.Env,
		"port":                        c.Server.Port,
		"store_driver":                c.Database.Driver,
		"db_host":                     c.Database.Host,
		"db_name":                     c.Database.Name,
		"reuse_deleted_unique_values": c.Database.ReuseDeletedUniqueValues,
		"admin_bootstrap":             c.Admin.Email != "",
		"jwt_ttl":                     c.JWT.TTL.String(),
		"log_level":                   c.Log.Level,
		"metrics_prefix":              c.Metrics.Prefix,
		"currency":                    c.Business.Currency,
		"timezone":                    c.Business.Timezone,
	}
}
