package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Supported values of db.driver.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

const envPrefix = "MYFLIX"

var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")

type (
	Config struct {
		Port      string
		LogLevel  string
		DB        DB
		Auth      Auth
		Favorites Favorites
		CORS      CORS
	}

	DB struct {
		Driver        string
		Path          string // sqlite file
		MongoURI      string
		MongoDatabase string
		SeedFile      string        // JSON array of movies loaded into an empty catalog
		Timeout       time.Duration // per store call
	}

	Auth struct {
		JWTSecret        string
		TokenTTL         time.Duration
		BcryptCost       int
		EnforceOwnership bool

		// Login rate limiting; LoginMaxAttempts <= 0 disables it.
		LoginMaxAttempts int
		LoginWindow      time.Duration
		LoginLockout     time.Duration
	}

	Favorites struct {
		Unique bool // set semantics instead of push
	}

	CORS struct {
		AllowedOrigins []string
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "myflix.db")
	v.SetDefault("db.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo_database", "myflix")
	v.SetDefault("db.seed_file", "")
	v.SetDefault("db.timeout", "5s")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h") // 7 days
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.enforce_ownership", false)
	v.SetDefault("auth.login_max_attempts", 5)
	v.SetDefault("auth.login_window", "15m")
	v.SetDefault("auth.login_lockout", "30m")

	v.SetDefault("favorites.unique", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load builds the Config from defaults, the first config.yml found in dirs,
// an optional .env file and MYFLIX_* environment variables, in increasing
// order of precedence.
func Load(dirs ...string) (*Config, error) {
	// .env is optional and never overrides variables already set
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: strings.ToLower(v.GetString("log_level")),
		DB: DB{
			Driver:        strings.ToLower(v.GetString("db.driver")),
			Path:          v.GetString("db.path"),
			MongoURI:      v.GetString("db.mongo_uri"),
			MongoDatabase: v.GetString("db.mongo_database"),
			SeedFile:      v.GetString("db.seed_file"),
			Timeout:       v.GetDuration("db.timeout"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("auth.jwt_secret"),
			TokenTTL:         v.GetDuration("auth.token_ttl"),
			BcryptCost:       v.GetInt("auth.bcrypt_cost"),
			EnforceOwnership: v.GetBool("auth.enforce_ownership"),
			LoginMaxAttempts: v.GetInt("auth.login_max_attempts"),
			LoginWindow:      v.GetDuration("auth.login_window"),
			LoginLockout:     v.GetDuration("auth.login_lockout"),
		},
		Favorites: Favorites{
			Unique: v.GetBool("favorites.unique"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would prevent the server from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be within [%d, %d], got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported db.driver %q (want %q or %q)", c.DB.Driver, DriverSQLite, DriverMongo)
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
