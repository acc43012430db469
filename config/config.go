package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	OTP      OTPConfig      `yaml:"otp"`
	Auth     AuthConfig     `yaml:"auth"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerDir  string   `yaml:"swagger_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	HoldTTLMinutes  int    `yaml:"hold_ttl_minutes"`
	FlightsCacheTTL int    `yaml:"flights_cache_ttl_seconds"`
	DefaultCurrency string `yaml:"default_currency"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

// OTP store backends.
const (
	OTPStorePostgres = "postgres"
	OTPStoreRedis    = "redis"
	OTPStoreMemory   = "memory"
)

type OTPConfig struct {
	Store                  string `yaml:"store"`
	CodeLength             int    `yaml:"code_length"`
	HashCost               int    `yaml:"hash_cost"`
	VerificationTTLMinutes int    `yaml:"verification_ttl_minutes"`
	ResetTTLMinutes        int    `yaml:"reset_ttl_minutes"`
	DeletionTTLMinutes     int    `yaml:"deletion_ttl_minutes"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"from_name"`
}

// Configured reports whether real SMTP delivery is possible.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port != 0 && s.Username != "" && s.Password != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads the YAML file at path and overlays secrets from the
// environment. A .env file in the working directory is honoured when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "travelease",
			SSLMode: "disable",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			BookingEventsTopic: "booking-events",
			NotificationsTopic: "notifications",
			GroupID:            "travelease-worker",
		},
		Booking: BookingConfig{
			HoldTTLMinutes:  15,
			FlightsCacheTTL: 60,
			DefaultCurrency: "USD",
		},
		Worker: WorkerConfig{ExpirationSweepMinutes: 1},
		OTP: OTPConfig{
			Store:                  OTPStorePostgres,
			CodeLength:             6,
			HashCost:               10,
			VerificationTTLMinutes: 10,
			ResetTTLMinutes:        15,
			DeletionTTLMinutes:     10,
		},
		Auth: AuthConfig{TokenTTLMinutes: 60 * 24},
		SMTP: SMTPConfig{Port: 587, FromName: "TravelEase"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
	if v := getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("auth.token_ttl_minutes must be positive"))
	}
	switch c.OTP.Store {
	case OTPStorePostgres, OTPStoreRedis, OTPStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("otp.store %q is not supported", c.OTP.Store))
	}
	if c.OTP.CodeLength < 4 || c.OTP.CodeLength > 10 {
		errs = append(errs, errors.New("otp.code_length must be between 4 and 10"))
	}
	if c.OTP.VerificationTTLMinutes <= 0 || c.OTP.ResetTTLMinutes <= 0 || c.OTP.DeletionTTLMinutes <= 0 {
		errs = append(errs, errors.New("otp ttl values must be positive"))
	}
	if c.Booking.HoldTTLMinutes <= 0 {
		errs = append(errs, errors.New("booking.hold_ttl_minutes must be positive"))
	}
	if len(c.Booking.DefaultCurrency) != 3 {
		errs = append(errs, errors.New("booking.default_currency must be a 3-letter code"))
	}
	return errors.Join(errs...)
}
