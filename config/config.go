package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"ulascansenturk/weather-loader/internal/db/observations"
	"ulascansenturk/weather-loader/internal/etlerr"
)

type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTPTimeout int32 `env:"HTTP_TIMEOUT" validate:"gt=0"`

	WeatherStackAPIKey  string `env:"WEATHER_STACK_API_KEY" validate:"required"`
	WeatherStackBaseURL string `env:"WEATHER_STACK_BASE_URL" validate:"required,url"`

	DBName     string `env:"DATABASE_NAME" validate:"required"`
	DBPassword string `env:"DATABASE_PASSWORD" validate:"required"`
	DBUser     string `env:"DATABASE_USER" validate:"required"`
	DBPort     string `env:"DATABASE_PORT" validate:"required,numeric"`
	DBHost     string `env:"DATABASE_HOST" validate:"required"`
	DBSSLMode  string `env:"DATABASE_SSLMODE" validate:"required"`

	Schema   string   `env:"DB_SCHEMA" validate:"required"`
	Table    string   `env:"DB_TABLE" validate:"required"`
	DedupKey []string `env:"DEDUP_KEY" validate:"min=1,dive,required,dedup_column"`

	CitiesFile string
	Cities     []string `env:"CITIES" validate:"min=1,dive,required"`

	RunInterval        time.Duration `env:"RUN_INTERVAL" validate:"gte=0"`
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" validate:"gt=0"`
}

// DBCredentials is the connection part of the config.
type DBCredentials struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	SSLMode  string
}

// DSN renders a postgres URL with user and password escaped.
func (c DBCredentials) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// flag name -> config key
var flagBindings = map[string]string{
	"cities-file": "CITIES_FILE",
	"schema":      "DB_SCHEMA",
	"table":       "DB_TABLE",
	"interval":    "RUN_INTERVAL",
}

// LoadConfig reads the environment, an optional .env file and the given flags.
// flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "weather-loader")

	v.SetDefault("HTTP_TIMEOUT", 10)
	v.SetDefault("WEATHER_STACK_BASE_URL", "http://api.weatherstack.com/current")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "analytics")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DB_SCHEMA", "weather")
	v.SetDefault("DB_TABLE", "weather_data")
	v.SetDefault("DEDUP_KEY", "record_hash")
	v.SetDefault("CITIES_FILE", "api_config.yaml")
	v.SetDefault("RUN_INTERVAL", time.Duration(0))
	v.SetDefault("BREAKER_MAX_FAILURES", 3)

	v.AutomaticEnv()

	// older deployments export the sling names
	for key, aliases := range map[string][]string{
		"WEATHER_STACK_API_KEY": {"WEATHER_STACK_API_KEY", "API_KEY"},
		"DATABASE_USER":         {"DATABASE_USER", "SLING_USER"},
		"DATABASE_PASSWORD":     {"DATABASE_PASSWORD", "SLING_PASSWORD"},
	} {
		if err := v.BindEnv(append([]string{key}, aliases...)...); err != nil {
			return nil, fmt.Errorf("error binding env %s: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	config := &Config{
		ServiceName:         v.GetString("SERVICE_NAME"),
		Env:                 v.GetString("ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		HTTPTimeout:         v.GetInt32("HTTP_TIMEOUT"),
		WeatherStackAPIKey:  v.GetString("WEATHER_STACK_API_KEY"),
		WeatherStackBaseURL: v.GetString("WEATHER_STACK_BASE_URL"),
		DBName:              v.GetString("DATABASE_NAME"),
		DBPassword:          v.GetString("DATABASE_PASSWORD"),
		DBUser:              v.GetString("DATABASE_USER"),
		DBPort:              v.GetString("DATABASE_PORT"),
		DBHost:              v.GetString("DATABASE_HOST"),
		DBSSLMode:           v.GetString("DATABASE_SSLMODE"),
		Schema:              v.GetString("DB_SCHEMA"),
		Table:               v.GetString("DB_TABLE"),
		DedupKey:            splitList(v.GetString("DEDUP_KEY")),
		CitiesFile:          v.GetString("CITIES_FILE"),
		RunInterval:         v.GetDuration("RUN_INTERVAL"),
		BreakerMaxFailures:  v.GetUint32("BREAKER_MAX_FAILURES"),
	}

	cities, err := ResolveCities(splitList(v.GetString("CITIES")), config.CitiesFile)
	if err != nil {
		return nil, err
	}
	config.Cities = cities

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func (c *Config) Credentials() DBCredentials {
	return DBCredentials{
		User:     c.DBUser,
		Password: c.DBPassword,
		Host:     c.DBHost,
		Port:     c.DBPort,
		Database: c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// Validate reports every missing or invalid setting at once, by env name.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	if err := validate.RegisterValidation("dedup_column", func(fl validator.FieldLevel) bool {
		return observations.IsDedupColumn(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("%w: %w", etlerr.ErrConfig, err)
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", etlerr.ErrConfig, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, fieldErr := range validationErrs {
		name := fieldErr.Field()
		// dive errors come back as CITIES[0]
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if fieldErr.Tag() == "dedup_column" {
			name = fmt.Sprintf("%s=%v (not a dedup key column)", name, fieldErr.Value())
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return fmt.Errorf("%w: missing or invalid settings: %s", etlerr.ErrConfig, strings.Join(names, ", "))
}

type citiesFile struct {
	Cities []string `yaml:"cities"`
}

// ResolveCities returns the explicit list when given, otherwise the `cities` list of the YAML
// file at path. Names are trimmed, blanks dropped and repeats removed keeping first order.
func ResolveCities(explicit []string, path string) ([]string, error) {
	raw := explicit
	if len(raw) == 0 {
		if path == "" {
			return nil, fmt.Errorf("%w: no cities configured: set CITIES or CITIES_FILE", etlerr.ErrConfig)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading cities file %s: %w", etlerr.ErrConfig, path, err)
		}

		var file citiesFile
		if err := yaml.Unmarshal(content, &file); err != nil {
			return nil, fmt.Errorf("%w: parsing cities file %s: %w", etlerr.ErrConfig, path, err)
		}
		raw = file.Cities
	}

	seen := make(map[string]bool, len(raw))
	cities := make([]string, 0, len(raw))
	for _, city := range raw {
		city = strings.TrimSpace(city)
		if city == "" || seen[city] {
			continue
		}
		seen[city] = true
		cities = append(cities, city)
	}

	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: city list is empty", etlerr.ErrConfig)
	}
	return cities, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
