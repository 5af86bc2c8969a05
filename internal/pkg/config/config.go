package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   external calendar credentials), security settings
// - default: Values common across all environments (timezone, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Cookie      CookieConfig
	Calendar    CalendarConfig
	Identity    IdentityConfig
	Reservation ReservationConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Europe/Prague"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone string `envconfig:"LOG_TIMEZONE" default:"Europe/Prague"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"lax"`
}

// CalendarConfig points at the external calendar-of-record API.
type CalendarConfig struct {
	BaseURL string        `envconfig:"CALENDAR_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"CALENDAR_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"CALENDAR_TIMEOUT" default:"10s"`
}

// IdentityConfig points at the member information system that grants
// service entitlements.
type IdentityConfig struct {
	BaseURL string        `envconfig:"IDENTITY_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"IDENTITY_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"10s"`
}

// ReservationConfig carries fixed business parameters of the booking engine.
// TimeZone is the wall-clock zone used for the back-to-back collision
// comparison and the operating-hours window.
type ReservationConfig struct {
	TimeZone  string `envconfig:"RESERVATION_TIMEZONE" default:"Europe/Prague"`
	OpenHour  int    `envconfig:"RESERVATION_OPEN_HOUR" default:"8"`
	CloseHour int    `envconfig:"RESERVATION_CLOSE_HOUR" default:"22"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Europe/Prague",
		},
		Log: LogConfig{
			Level:    "error",
			TimeZone: "Europe/Prague",
		},
		Reservation: ReservationConfig{
			TimeZone:  "Europe/Prague",
			OpenHour:  8,
			CloseHour: 22,
		},
	}
}
