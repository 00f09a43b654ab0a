package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	WorkDir   string          `yaml:"work_dir" envconfig:"WORK_DIR" validate:"required"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Remote    RemoteConfig    `yaml:"remote" envconfig:"REMOTE"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig selects and tunes the acquisition strategy.
type PipelineConfig struct {
	// Source is "archive" or "remote".
	Source         string `yaml:"source" envconfig:"SOURCE" validate:"oneof=archive remote"`
	ArchivePath    string `yaml:"archive_path" envconfig:"ARCHIVE_PATH" validate:"required_if=Source archive"`
	RemoteFolder   string `yaml:"remote_folder" envconfig:"REMOTE_FOLDER" validate:"required_if=Source remote"`
	Recursive      bool   `yaml:"recursive" envconfig:"RECURSIVE"`
	ExportWorkbook bool   `yaml:"export_workbook" envconfig:"EXPORT_WORKBOOK"`
}

// RemoteConfig contains Google Drive access settings
type RemoteConfig struct {
	CredentialsFile   string  `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	APIKey            string  `yaml:"api_key" envconfig:"API_KEY"`
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst             int     `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`
	RefreshPerMin   int           `yaml:"refresh_per_minute" envconfig:"REFRESH_PER_MINUTE" validate:"gte=1"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
}

// Load builds the configuration from defaults, an optional YAML file and
// ULTISTATS_* environment variables, in that order of precedence.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Paths resolves the working directory layout for this configuration
func (c *Config) Paths() (*Paths, error) {
	return NewPaths(c.WorkDir)
}

// getConfigFilePath returns the first config file found in common locations
func getConfigFilePath() string {
	locations := []string{
		"ultistats.yaml",
		"configs/ultistats.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		WorkDir: ".",
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/ultistats.log",
		},
		Pipeline: PipelineConfig{
			Source:      "archive",
			ArchivePath: DefaultArchiveName,
		},
		Remote: RemoteConfig{
			RequestsPerSecond: 5,
			Burst:             1,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CacheTTL:        DefaultCacheTTL,
			RefreshPerMin:   6,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
