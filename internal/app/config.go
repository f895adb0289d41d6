package app

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "defaultsecret"

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Mode     string `mapstructure:"mode" validate:"oneof=development production test"`
	Redact   bool   `mapstructure:"redact"`
	HashSalt string `mapstructure:"hash_salt"`
}

type DatabaseConfig struct {
	Driver        string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host          string        `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port          int           `mapstructure:"port" validate:"min=0,max=65535"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Name          string        `mapstructure:"name" validate:"required_if=Driver postgres"`
	SSLMode       string        `mapstructure:"sslmode"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate   bool          `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=8"`
	AccessTTL time.Duration `mapstructure:"access_ttl" validate:"gt=0"`
}

type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model      string        `mapstructure:"model" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries uint          `mapstructure:"max_retries" validate:"max=10"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Channel string `mapstructure:"channel"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name" validate:"required"`
	Environment string  `mapstructure:"environment"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	Headers     string  `mapstructure:"headers"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

type GenerationConfig struct {
	// StuckAfter is how long a topic may sit in processing before recover-stuck fails it.
	StuckAfter time.Duration `mapstructure:"stuck_after" validate:"gt=0"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Otel       OtelConfig       `mapstructure:"otel"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// UsesDefaultSecret reports whether tokens are signed with the built-in development key.
func (c Config) UsesDefaultSecret() bool { return c.Auth.JWTSecret == defaultJWTSecret }

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

// NewConfigLoader reads configFile when given, otherwise an optional ./config.yaml.
// Environment variables override both, e.g. DATABASE_HOST or OPENAI_API_KEY.
func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigLoader{viper: v, validator: validate, translator: trans}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.redact", true)
	v.SetDefault("log.hash_salt", "")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "studynotes")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "")
	v.SetDefault("database.slow_threshold", time.Second)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.access_ttl", time.Hour)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", 120*time.Second)
	v.SetDefault("openai.max_retries", 2)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.channel", "topic-status")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "studynotes-backend")
	v.SetDefault("otel.environment", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("generation.stuck_after", 30*time.Minute)
}

// legacyEnv maps conventional variable names onto config keys.
var legacyEnv = map[string][]string{
	"auth.jwt_secret":   {"AUTH_JWT_SECRET", "JWT_SECRET_KEY"},
	"log.mode":          {"LOG_MODE"},
	"database.password": {"DATABASE_PASSWORD", "POSTGRES_PASSWORD"},
	"otel.endpoint":     {"OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
	"otel.headers":      {"OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS"},
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper
	setDefaults(v)
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if err := loader.validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (loader *ConfigLoader) validate(cfg Config) error {
	err := loader.validator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(loader.translator))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

// LoadConfig loads .env (if present) and then the layered configuration.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, trans, nil
}
