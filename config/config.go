package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Contact       ContactConfig
	Mail          MailConfig
	Projects      ProjectsConfig
	GitHub        GitHubConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Redirect      RedirectConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// ContactConfig controls the contact form rate limiter
type ContactConfig struct {
	RateLimit       int
	RateWindow      time.Duration
	JanitorInterval time.Duration
	MaxBodyBytes    int64
}

// MailConfig mirrors the SMTP_* environment variables
type MailConfig struct {
	Host      string
	Port      int
	Secure    bool
	User      string
	Password  string
	From      string
	Recipient string
	Timeout   time.Duration
}

// IsConfigured reports whether host and credentials are all present
func (m MailConfig) IsConfigured() bool {
	return m.Host != "" && m.User != "" && m.Password != ""
}

// ProjectsConfig lists the GitHub repositories shown per gallery category
type ProjectsConfig struct {
	Fullstack []string
	AI        []string
	Python    []string
	CacheTTL  time.Duration
}

type GitHubConfig struct {
	APIURL     string
	Token      string
	MaxRetries int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// RedirectConfig is used by the legacy domain redirect server
type RedirectConfig struct {
	Port   string
	Target string
}

const (
	defaultAPIPort      = "8080"
	defaultRedirectPort = "3000"
)

var (
	defaultFullstackRepos = "tanisheesh/Nexus-AI,tanisheesh/SeatFinderSRM,tanisheesh/BazaarOps,tanisheesh/Prompt2App,tanisheesh/VirtualShell,tanisheesh/Moodify"
	defaultAIRepos        = "tanisheesh/PosturePro,tanisheesh/Maternalyze,tanisheesh/Crime-Risk-Prediction-System,tanisheesh/GreenVision"
	defaultPythonRepos    = "tanisheesh/Python-Mini-Shell,tanisheesh/aegis-shell"
)

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://tanisheesh.is-a.dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SECURE", false)
	v.SetDefault("SMTP_FROM", `"Portfolio Contact" <noreply@example.com>`)
	v.SetDefault("SMTP_TIMEOUT_SECONDS", 15)

	v.SetDefault("CONTACT_RATE_LIMIT", 5)
	v.SetDefault("CONTACT_RATE_WINDOW_MINUTES", 60)
	v.SetDefault("CONTACT_RATE_SWEEP_MINUTES", 10)
	v.SetDefault("CONTACT_MAX_BODY_BYTES", 100*1024)

	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("GITHUB_MAX_RETRIES", 2)
	v.SetDefault("PROJECTS_FULLSTACK", defaultFullstackRepos)
	v.SetDefault("PROJECTS_AI", defaultAIRepos)
	v.SetDefault("PROJECTS_PYTHON", defaultPythonRepos)
	v.SetDefault("PROJECTS_CACHE_TTL", 600) // seconds

	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "portfolio-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "portfolio")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "portfolio-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.SetDefault("REDIRECT_TARGET", "https://tanisheesh.is-a.dev")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	return v
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := newViper()

	smtpUser := v.GetString("SMTP_USER")
	recipient := strings.TrimSpace(v.GetString("CONTACT_RECIPIENT"))
	if recipient == "" {
		recipient = smtpUser
	}

	// PORT has no viper default so the redirect server can tell whether it was set
	port := v.GetString("PORT")
	apiPort := port
	if apiPort == "" {
		apiPort = defaultAPIPort
	}
	redirectPort := v.GetString("REDIRECT_PORT")
	if redirectPort == "" {
		redirectPort = port
	}
	if redirectPort == "" {
		redirectPort = defaultRedirectPort
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           apiPort,
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Contact: ContactConfig{
			RateLimit:       v.GetInt("CONTACT_RATE_LIMIT"),
			RateWindow:      time.Duration(v.GetInt("CONTACT_RATE_WINDOW_MINUTES")) * time.Minute,
			JanitorInterval: time.Duration(v.GetInt("CONTACT_RATE_SWEEP_MINUTES")) * time.Minute,
			MaxBodyBytes:    v.GetInt64("CONTACT_MAX_BODY_BYTES"),
		},
		Mail: MailConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Secure:    v.GetString("SMTP_SECURE") == "true",
			User:      smtpUser,
			Password:  v.GetString("SMTP_PASS"),
			From:      v.GetString("SMTP_FROM"),
			Recipient: recipient,
			Timeout:   time.Duration(v.GetInt("SMTP_TIMEOUT_SECONDS")) * time.Second,
		},
		Projects: ProjectsConfig{
			Fullstack: splitList(v.GetString("PROJECTS_FULLSTACK")),
			AI:        splitList(v.GetString("PROJECTS_AI")),
			Python:    splitList(v.GetString("PROJECTS_PYTHON")),
			CacheTTL:  time.Duration(v.GetInt("PROJECTS_CACHE_TTL")) * time.Second,
		},
		GitHub: GitHubConfig{
			APIURL:     strings.TrimRight(v.GetString("GITHUB_API_URL"), "/"),
			Token:      v.GetString("GITHUB_TOKEN"),
			MaxRetries: v.GetInt("GITHUB_MAX_RETRIES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Redirect: RedirectConfig{
			Port:   redirectPort,
			Target: strings.TrimRight(v.GetString("REDIRECT_TARGET"), "/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Contact.RateLimit <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT must be positive")
	}
	if c.Contact.RateWindow <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW_MINUTES must be positive")
	}
	if c.GitHub.MaxRetries < 0 {
		return fmt.Errorf("GITHUB_MAX_RETRIES must not be negative")
	}
	if c.Mail.Timeout <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT_SECONDS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// splitList parses a comma-separated value, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
