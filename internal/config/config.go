package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Profile string

const (
	ProfileFull         Profile = "full"
	ProfileMinimal      Profile = "minimal"
	ProfileSuperMinimal Profile = "super_minimal"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const DefaultTokenTTL = 24 * time.Hour

// Features says which route groups a profile exposes.
type Features struct {
	Users        bool
	Management   bool
	Dashboards   bool
	Attendance   bool
	Registration bool
	Search       bool
	Diagnostics  bool
}

type Config struct {
	ServiceName string

	Host    string
	Port    int
	Profile Profile

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret  []byte
	JWTTTL     time.Duration
	BcryptCost int

	LogLevel       string
	CORSOrigins    []string
	LoginRate      float64
	LoginBurst     int
	MetricsEnabled bool

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("env_file_not_found", "error", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "netra"),

		Host:    EnvDefault("HOST", "0.0.0.0"),
		Port:    EnvIntDefault("PORT", 10000),
		Profile: Profile(strings.ToLower(EnvDefault("PROFILE", string(ProfileFull)))),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", DriverSQLite)),
		DBPath:      EnvDefault("DB_PATH", "data/project_netra_final.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:     EnvDurationDefault("JWT_TTL", DefaultTokenTTL),
		BcryptCost: EnvIntDefault("BCRYPT_COST", 10),

		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
		CORSOrigins:    CSV(EnvDefault("CORS_ORIGINS", "*")),
		LoginRate:      EnvFloatDefault("LOGIN_RATE", 5),
		LoginBurst:     EnvIntDefault("LOGIN_BURST", 10),
		MetricsEnabled: EnvBoolDefault("METRICS_ENABLED", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "auth_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "students"),
	}
}

func (c Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	switch c.Profile {
	case ProfileFull, ProfileMinimal, ProfileSuperMinimal:
	default:
		errs = append(errs, fmt.Errorf("unknown PROFILE %q", c.Profile))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	errs = append(errs, c.ValidateStorage())
	return errors.Join(errs...)
}

// ValidateStorage checks only the database settings. The seed command needs
// nothing else.
func (c Config) ValidateStorage() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is empty")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is empty")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN is the sqlite file path or the postgres connection URL.
func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

func (c Config) Features() Features {
	switch c.Profile {
	case ProfileSuperMinimal:
		return Features{Diagnostics: true}
	case ProfileMinimal:
		return Features{Users: true, Management: true}
	default:
		return Features{
			Users:        true,
			Management:   true,
			Dashboards:   true,
			Attendance:   true,
			Registration: true,
			Search:       true,
		}
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go durations ("24h") or a bare number of minutes.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	return def
}
