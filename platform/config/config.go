// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DataConfig provides the on-disk data layout. All persistence components
// receive their paths through this interface; there is no package-level
// path state anywhere in the codebase.
type DataConfig interface {
	GetCampaignsDir() string
	GetMemoryDir() string
	GetUploadsDir() string
}

// MailConfig provides settings for outbound SMTP delivery and inbound
// IMAP retrieval.
type MailConfig interface {
	GetFromEmail() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUser() string
	GetSMTPPassword() string
	GetIMAPServer() string
	GetIMAPPort() int
	GetIMAPPassword() string
	IsDryRun() bool
	IsIMAPEnabled() bool
}

// GenerationConfig provides settings for the LLM generation backends.
type GenerationConfig interface {
	GetGenerationProvider() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetChatAPIKey() string
	GetChatBaseURL() string
	GetChatModel() string
}

// SchedulerConfig provides settings for the asynq-backed campaign queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RunnerConfig provides settings for the in-process background runner.
type RunnerConfig interface {
	GetRunnerConcurrency() int
}

// OutreachConfig provides settings for the outreach execution stage.
type OutreachConfig interface {
	GetSendsPerMinute() int
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll bool
	CORSOrigins  []string

	DataDir string

	FromEmail    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	IMAPServer   string
	IMAPPort     int
	IMAPPassword string
	DryRunMode   bool

	GenerationProvider string
	GeminiAPIKey       string
	GeminiModel        string
	ChatAPIKey         string
	ChatBaseURL        string
	ChatModel          string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	RunnerConcurrency int
	SendsPerMinute    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DataConfig implementation
func (c *Config) GetCampaignsDir() string { return filepath.Join(c.DataDir, "campaigns") }
func (c *Config) GetMemoryDir() string    { return filepath.Join(c.DataDir, "memory") }
func (c *Config) GetUploadsDir() string   { return filepath.Join(c.DataDir, "uploaded_leads") }

// MailConfig implementation
func (c *Config) GetFromEmail() string    { return c.FromEmail }
func (c *Config) GetSMTPHost() string     { return c.SMTPHost }
func (c *Config) GetSMTPPort() int        { return c.SMTPPort }
func (c *Config) GetSMTPUser() string     { return c.SMTPUser }
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }
func (c *Config) GetIMAPServer() string   { return c.IMAPServer }
func (c *Config) GetIMAPPort() int        { return c.IMAPPort }
func (c *Config) GetIMAPPassword() string { return c.IMAPPassword }
func (c *Config) IsDryRun() bool          { return c.DryRunMode }
func (c *Config) IsIMAPEnabled() bool {
	return c.IMAPServer != "" && c.IMAPPassword != "" && c.FromEmail != ""
}

// GenerationConfig implementation
func (c *Config) GetGenerationProvider() string { return c.GenerationProvider }
func (c *Config) GetGeminiAPIKey() string       { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string        { return c.GeminiModel }
func (c *Config) GetChatAPIKey() string         { return c.ChatAPIKey }
func (c *Config) GetChatBaseURL() string        { return c.ChatBaseURL }
func (c *Config) GetChatModel() string          { return c.ChatModel }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// RunnerConfig implementation
func (c *Config) GetRunnerConcurrency() int { return c.RunnerConcurrency }

// OutreachConfig implementation
func (c *Config) GetSendsPerMinute() int { return c.SendsPerMinute }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// fileSettings mirrors the optional YAML settings file. Environment
// variables always win over file values.
type fileSettings struct {
	DataDir        string `yaml:"data_dir"`
	FromEmail      string `yaml:"from_email"`
	DryRunMode     *bool  `yaml:"dry_run_mode"`
	SendsPerMinute *int   `yaml:"sends_per_minute"`
	ChatModel      string `yaml:"chat_model"`
	GeminiModel    string `yaml:"gemini_model"`
}

// Load reads configuration from the optional YAML settings file and
// environment variables (env wins).
func Load() (*Config, error) {
	_ = godotenv.Load()

	file := loadFileSettings(getEnv("SETTINGS_FILE", filepath.Join("configs", "settings.yaml")))

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	dryRun := strings.EqualFold(getEnv("DRY_RUN_MODE", ""), "true")
	if getEnv("DRY_RUN_MODE", "") == "" && file.DryRunMode != nil {
		dryRun = *file.DryRunMode
	}

	sendsPerMinute := mustInt(getEnv("SENDS_PER_MINUTE", "0"))
	if getEnv("SENDS_PER_MINUTE", "") == "" && file.SendsPerMinute != nil {
		sendsPerMinute = *file.SendsPerMinute
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		CORSAllowAll: corsAllowAll,
		CORSOrigins:  corsOrigins,

		DataDir: getEnv("DATA_DIR", firstNonEmpty(file.DataDir, "data")),

		FromEmail:    getEnv("FROM_EMAIL", firstNonEmpty(file.FromEmail, "outreach@company.com")),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		IMAPServer:   getEnv("IMAP_SERVER", ""),
		IMAPPort:     mustInt(getEnv("IMAP_PORT", "993")),
		IMAPPassword: getEnv("IMAP_APP_PASSWORD", ""),
		DryRunMode:   dryRun,

		GenerationProvider: getEnv("GENERATION_PROVIDER", "chat"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", firstNonEmpty(file.GeminiModel, "gemini-2.0-flash")),
		ChatAPIKey:         getEnv("CHAT_API_KEY", ""),
		ChatBaseURL:        getEnv("CHAT_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatModel:          getEnv("CHAT_MODEL", firstNonEmpty(file.ChatModel, "llama-3.3-70b-versatile")),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "campaigns"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),

		RunnerConcurrency: mustInt(getEnv("RUNNER_CONCURRENCY", "4")),
		SendsPerMinute:    sendsPerMinute,
	}

	return cfg, nil
}

func loadFileSettings(path string) fileSettings {
	var s fileSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = yaml.Unmarshal(data, &s)
	return s
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(values []string) bool {
	for _, v := range values {
		if v == "*" {
			return true
		}
	}
	return false
}
