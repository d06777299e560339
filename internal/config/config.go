package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	Extraction ExtractionConfig
	CORS       CORSConfig
	Queue      QueueConfig
}

// QueueConfig holds parse queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRConfig holds settings for the external OCR collaborator.
type OCRConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Tesseract    string `mapstructure:"tesseract"`
	Pdftoppm     string `mapstructure:"pdftoppm"`
	Language     string `mapstructure:"language"`
	DPI          int    `mapstructure:"dpi"`
	PSM          int    `mapstructure:"psm"`
	MaxPages     int    `mapstructure:"max_pages"`
	Concurrency  int    `mapstructure:"concurrency"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	CooldownSecs int    `mapstructure:"cooldown_secs"`
}

// Timeout returns the per-document OCR deadline.
func (o *OCRConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// Cooldown returns how long OCR is skipped after the collaborator reports it is unavailable.
func (o *OCRConfig) Cooldown() time.Duration {
	return time.Duration(o.CooldownSecs) * time.Second
}

// ExtractionConfig holds text acquisition and record extraction settings.
type ExtractionConfig struct {
	PrimaryMinChars int      `mapstructure:"primary_min_chars"`
	OCRMinChars     int      `mapstructure:"ocr_min_chars"`
	SampleChars     int      `mapstructure:"sample_chars"`
	Strategies      []string `mapstructure:"strategies"`
	OCR             OCRConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify externally issued access tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the GRADELEDGER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GRADELEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gradeledger")
	v.SetDefault("db.password", "gradeledger_secret")
	v.SetDefault("db.name", "gradeledger_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "gradeledger-sheets")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)

	// Extraction defaults. The thresholds were tuned on real result sheets.
	v.SetDefault("extraction.primary_min_chars", 100)
	v.SetDefault("extraction.ocr_min_chars", 50)
	v.SetDefault("extraction.sample_chars", 2000)
	v.SetDefault("extraction.strategies", "table,linescan")
	v.SetDefault("extraction.ocr.enabled", true)
	v.SetDefault("extraction.ocr.tesseract", "tesseract")
	v.SetDefault("extraction.ocr.pdftoppm", "pdftoppm")
	v.SetDefault("extraction.ocr.language", "eng")
	v.SetDefault("extraction.ocr.dpi", 300)
	v.SetDefault("extraction.ocr.psm", 6)
	v.SetDefault("extraction.ocr.max_pages", 20)
	v.SetDefault("extraction.ocr.concurrency", 2)
	v.SetDefault("extraction.ocr.timeout_secs", 90)
	v.SetDefault("extraction.ocr.cooldown_secs", 300)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "GRADELEDGER_SERVER_PORT",
		"server.read_timeout":              "GRADELEDGER_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "GRADELEDGER_SERVER_WRITE_TIMEOUT",
		"server.environment":               "GRADELEDGER_SERVER_ENVIRONMENT",
		"db.host":                          "GRADELEDGER_DB_HOST",
		"db.port":                          "GRADELEDGER_DB_PORT",
		"db.user":                          "GRADELEDGER_DB_USER",
		"db.password":                      "GRADELEDGER_DB_PASSWORD",
		"db.name":                          "GRADELEDGER_DB_NAME",
		"db.sslmode":                       "GRADELEDGER_DB_SSLMODE",
		"db.max_open":                      "GRADELEDGER_DB_MAX_OPEN",
		"db.max_idle":                      "GRADELEDGER_DB_MAX_IDLE",
		"jwt.secret":                       "GRADELEDGER_JWT_SECRET",
		"jwt.issuer":                       "GRADELEDGER_JWT_ISSUER",
		"s3.region":                        "GRADELEDGER_S3_REGION",
		"s3.bucket":                        "GRADELEDGER_S3_BUCKET",
		"s3.endpoint":                      "GRADELEDGER_S3_ENDPOINT",
		"s3.access_key":                    "GRADELEDGER_S3_ACCESS_KEY",
		"s3.secret_key":                    "GRADELEDGER_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "GRADELEDGER_S3_MAX_FILE_SIZE_MB",
		"log.level":                        "GRADELEDGER_LOG_LEVEL",
		"log.format":                       "GRADELEDGER_LOG_FORMAT",
		"cors.allowed_origins":             "GRADELEDGER_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":         "GRADELEDGER_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                "GRADELEDGER_QUEUE_MAX_RETRIES",
		"queue.concurrency":                "GRADELEDGER_QUEUE_CONCURRENCY",
		"extraction.primary_min_chars":     "GRADELEDGER_EXTRACTION_PRIMARY_MIN_CHARS",
		"extraction.ocr_min_chars":         "GRADELEDGER_EXTRACTION_OCR_MIN_CHARS",
		"extraction.sample_chars":          "GRADELEDGER_EXTRACTION_SAMPLE_CHARS",
		"extraction.strategies":            "GRADELEDGER_EXTRACTION_STRATEGIES",
		"extraction.ocr.enabled":           "GRADELEDGER_EXTRACTION_OCR_ENABLED",
		"extraction.ocr.tesseract":         "GRADELEDGER_EXTRACTION_OCR_TESSERACT",
		"extraction.ocr.pdftoppm":          "GRADELEDGER_EXTRACTION_OCR_PDFTOPPM",
		"extraction.ocr.language":          "GRADELEDGER_EXTRACTION_OCR_LANGUAGE",
		"extraction.ocr.dpi":               "GRADELEDGER_EXTRACTION_OCR_DPI",
		"extraction.ocr.psm":               "GRADELEDGER_EXTRACTION_OCR_PSM",
		"extraction.ocr.max_pages":         "GRADELEDGER_EXTRACTION_OCR_MAX_PAGES",
		"extraction.ocr.concurrency":       "GRADELEDGER_EXTRACTION_OCR_CONCURRENCY",
		"extraction.ocr.timeout_secs":      "GRADELEDGER_EXTRACTION_OCR_TIMEOUT_SECS",
		"extraction.ocr.cooldown_secs":     "GRADELEDGER_EXTRACTION_OCR_COOLDOWN_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GRADELEDGER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GRADELEDGER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: SplitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Extraction = ExtractionConfig{
		PrimaryMinChars: v.GetInt("extraction.primary_min_chars"),
		OCRMinChars:     v.GetInt("extraction.ocr_min_chars"),
		SampleChars:     v.GetInt("extraction.sample_chars"),
		Strategies:      SplitList(v.GetString("extraction.strategies")),
		OCR: OCRConfig{
			Enabled:      v.GetBool("extraction.ocr.enabled"),
			Tesseract:    v.GetString("extraction.ocr.tesseract"),
			Pdftoppm:     v.GetString("extraction.ocr.pdftoppm"),
			Language:     v.GetString("extraction.ocr.language"),
			DPI:          v.GetInt("extraction.ocr.dpi"),
			PSM:          v.GetInt("extraction.ocr.psm"),
			MaxPages:     v.GetInt("extraction.ocr.max_pages"),
			Concurrency:  v.GetInt("extraction.ocr.concurrency"),
			TimeoutSecs:  v.GetInt("extraction.ocr.timeout_secs"),
			CooldownSecs: v.GetInt("extraction.ocr.cooldown_secs"),
		},
	}

	return cfg, nil
}

// DefaultExtraction returns the extraction settings used when no environment is loaded,
// e.g. by the command-line tool.
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		PrimaryMinChars: 100,
		OCRMinChars:     50,
		SampleChars:     2000,
		Strategies:      []string{"table", "linescan"},
		OCR: OCRConfig{
			Enabled:      true,
			Tesseract:    "tesseract",
			Pdftoppm:     "pdftoppm",
			Language:     "eng",
			DPI:          300,
			PSM:          6,
			MaxPages:     20,
			Concurrency:  1,
			TimeoutSecs:  90,
			CooldownSecs: 300,
		},
	}
}

// SplitList parses a comma-separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
