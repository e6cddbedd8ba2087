package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment profiles. The profile only changes defaults; every option can
// still be overridden through its own environment variable.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Mail transports
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

type Config struct {
	Environment string
	Port        string
	Debug       bool
	LogFormat   string // "json" or "console"
	// HTTP protections
	CSRFEnabled    bool
	AllowedOrigins []string
	// Proxies whose X-Forwarded-For is honoured; empty means the peer address is the client
	TrustedProxies []string
	// Rate Limiting Configuration
	RateLimitStorageURI       string // memory:// or redis(s)://...
	RedisPassword             string
	RateLimitGlobalPerMinute  int
	RateLimitContactPerMinute int
	// Mail Configuration
	Mail MailConfig
	// SES Configuration (MAIL_TRANSPORT=ses)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	ShutdownTimeout time.Duration
}

type MailConfig struct {
	Enabled        bool
	Transport      string
	Server         string
	Port           int
	UseSSL         bool
	Username       string
	Password       string
	DefaultSender  string
	QuoteRecipient string
	SendTimeout    time.Duration
}

// UsesRedis reports whether rate limit counters should live in Redis.
func (c *Config) UsesRedis() bool {
	return strings.HasPrefix(c.RateLimitStorageURI, "redis://") ||
		strings.HasPrefix(c.RateLimitStorageURI, "rediss://")
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	env := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))
	switch env {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		log.Printf("WARNING: unknown APP_ENV %q, falling back to %s", env, EnvDevelopment)
		env = EnvDevelopment
	}

	mailUser := getEnv("MAIL_USERNAME", "")

	cfg := &Config{
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		Debug:          getEnvBool("DEBUG", env == EnvDevelopment),
		LogFormat:      getEnv("LOG_FORMAT", defaultLogFormat(env)),
		CSRFEnabled:    getEnvBool("CSRF_ENABLED", env != EnvTesting),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		// Rate Limiting Configuration (in-memory is fine for a single process)
		RateLimitStorageURI:       getEnv("RATELIMIT_STORAGE_URI", "memory://"),
		RedisPassword:             getEnv("REDIS_PASSWORD", ""),
		RateLimitGlobalPerMinute:  getEnvInt("RATE_LIMIT_GLOBAL_PER_MINUTE", 120),
		RateLimitContactPerMinute: getEnvInt("RATE_LIMIT_CONTACT_PER_MINUTE", 5),
		Mail: MailConfig{
			Enabled:        getEnvBool("MAIL_ENABLED", false),
			Transport:      strings.ToLower(getEnv("MAIL_TRANSPORT", TransportSMTP)),
			Server:         getEnv("MAIL_SERVER", "smtp.gmail.com"),
			Port:           getEnvInt("MAIL_PORT", 587),
			UseSSL:         getEnvBool("MAIL_USE_SSL", false),
			Username:       mailUser,
			Password:       getEnv("MAIL_PASSWORD", ""),
			DefaultSender:  getEnv("MAIL_DEFAULT_SENDER", orDefault(mailUser, "noreply@ironforgewelding.com")),
			QuoteRecipient: getEnv("QUOTE_RECIPIENT_EMAIL", orDefault(mailUser, "info@ironforgewelding.com")),
			SendTimeout:    getEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),
		},
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	// Never send real emails from test runs
	if env == EnvTesting {
		cfg.Mail.Enabled = false
	}

	if cfg.Mail.Transport != TransportSMTP && cfg.Mail.Transport != TransportSES {
		log.Printf("WARNING: unknown MAIL_TRANSPORT %q, using %s", cfg.Mail.Transport, TransportSMTP)
		cfg.Mail.Transport = TransportSMTP
	}

	if cfg.Mail.Enabled && cfg.Mail.Transport == TransportSMTP && cfg.Mail.Username == "" {
		log.Println("WARNING: MAIL_ENABLED is true but MAIL_USERNAME is empty. SMTP delivery will likely fail.")
	}

	return cfg, nil
}

func defaultLogFormat(env string) string {
	if env == EnvProduction {
		return "json"
	}
	return "console"
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool reports whether the variable is "true" (any case); fallback if not set
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(strings.TrimSpace(value), "true")
	}
	return fallback
}

// getEnvDuration accepts Go durations ("10s") or plain seconds ("10")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
