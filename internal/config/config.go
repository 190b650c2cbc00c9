package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/analyzer.log"`
}

// PathsConfig contains the directories the pipeline works in
type PathsConfig struct {
	// ExcelDir is scanned for source workbooks when no input is given.
	ExcelDir string `yaml:"excel_dir" envconfig:"EXCEL_DIR" default:"Excel" validate:"required"`
	// OutputDir is the root under which date-stamped result directories
	// are created.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"Data_Analysis" validate:"required"`
}

// ExportConfig contains export behavior configuration
type ExportConfig struct {
	// OpenAfterExport opens the result workbook in the platform default
	// application once the pipeline finishes.
	OpenAfterExport bool `yaml:"open_after_export" envconfig:"OPEN_AFTER_EXPORT" default:"false"`
}

// configFile is the optional YAML overlay read from the working directory.
const configFile = "config.yaml"

// Load loads configuration from .env, environment variables and the optional
// config file, then validates the result. Explicitly set environment
// variables win over the file.
func Load() (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("UNLOAD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when Load fails and the
// caller still wants to proceed.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/analyzer.log",
		},
		Paths: PathsConfig{
			ExcelDir:  "Excel",
			OutputDir: "Data_Analysis",
		},
	}
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges the file config into the env config; env values that
// were explicitly set keep priority over the file.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := fileCfg

	if isEnvSet("UNLOAD_LOGGING_LEVEL") {
		merged.Logging.Level = envCfg.Logging.Level
	}
	if isEnvSet("UNLOAD_LOGGING_OUTPUT") {
		merged.Logging.Output = envCfg.Logging.Output
	}
	if isEnvSet("UNLOAD_LOGGING_FILE_PATH") {
		merged.Logging.FilePath = envCfg.Logging.FilePath
	}
	if isEnvSet("UNLOAD_PATHS_EXCEL_DIR") {
		merged.Paths.ExcelDir = envCfg.Paths.ExcelDir
	}
	if isEnvSet("UNLOAD_PATHS_OUTPUT_DIR") {
		merged.Paths.OutputDir = envCfg.Paths.OutputDir
	}
	if isEnvSet("UNLOAD_EXPORT_OPEN_AFTER_EXPORT") {
		merged.Export.OpenAfterExport = envCfg.Export.OpenAfterExport
	}

	// Fill blanks left by a sparse file with the env/default values.
	if merged.Logging.Level == "" {
		merged.Logging.Level = envCfg.Logging.Level
	}
	if merged.Logging.Output == "" {
		merged.Logging.Output = envCfg.Logging.Output
	}
	if merged.Logging.FilePath == "" {
		merged.Logging.FilePath = envCfg.Logging.FilePath
	}
	if merged.Paths.ExcelDir == "" {
		merged.Paths.ExcelDir = envCfg.Paths.ExcelDir
	}
	if merged.Paths.OutputDir == "" {
		merged.Paths.OutputDir = envCfg.Paths.OutputDir
	}

	return merged
}

func isEnvSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// validate checks the configuration with struct tags
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}
