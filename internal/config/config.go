package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SupportedExtensions []string `yaml:"supported_extensions"`

	Scan struct {
		Recursive  bool `yaml:"recursive"`
		SkipHidden bool `yaml:"skip_hidden"`
	} `yaml:"scan"`

	Classifier struct {
		Type string `yaml:"type"` // rule_based | ml | llm | zero_shot
	} `yaml:"classifier"`

	FilenameGenerator struct {
		Type      string            `yaml:"type"` // template | ai | custom
		MaxLength int               `yaml:"max_length"`
		Templates map[string]string `yaml:"templates"`
	} `yaml:"filename_generator"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | text
	} `yaml:"logging"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`

	Report struct {
		Path string `yaml:"path"`
	} `yaml:"report"`

	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the endpoint
	} `yaml:"metrics"`

	Pipeline struct {
		Workers             int `yaml:"workers"`
		StageTimeoutSeconds int `yaml:"stage_timeout_seconds"`
	} `yaml:"pipeline"`
}

// StageTimeout converts the configured per-stage budget to a duration.
func (c Config) StageTimeout() time.Duration {
	return time.Duration(c.Pipeline.StageTimeoutSeconds) * time.Second
}

func Default() Config {
	var cfg Config
	cfg.SupportedExtensions = []string{".pdf", ".txt", ".docx"}
	cfg.Scan.Recursive = true
	cfg.Scan.SkipHidden = true
	cfg.Classifier.Type = "rule_based"
	cfg.FilenameGenerator.Type = "template"
	cfg.FilenameGenerator.MaxLength = 150
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Journal.Path = "renamer_journal.jsonl"
	cfg.History.Enabled = true
	cfg.History.Path = "renamer_history.db"
	cfg.Pipeline.Workers = 1
	cfg.Pipeline.StageTimeoutSeconds = 30
	return cfg
}

// Load merges, in increasing precedence: defaults, the YAML file at path
// (optional, empty path or missing file is fine), environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	cfg.Classifier.Type = envStr("RENAMER_CLASSIFIER_TYPE", cfg.Classifier.Type)
	cfg.FilenameGenerator.Type = envStr("RENAMER_GENERATOR_TYPE", cfg.FilenameGenerator.Type)
	cfg.Logging.Level = envStr("RENAMER_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = envStr("RENAMER_LOG_FORMAT", cfg.Logging.Format)
	cfg.Journal.Path = envStr("RENAMER_JOURNAL_PATH", cfg.Journal.Path)
	cfg.History.Path = envStr("RENAMER_HISTORY_PATH", cfg.History.Path)
	cfg.Metrics.Addr = envStr("RENAMER_METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Pipeline.Workers = envInt("RENAMER_WORKERS", cfg.Pipeline.Workers)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Classifier.Type {
	case "rule_based", "ml", "llm", "zero_shot":
	default:
		return fmt.Errorf("config: unknown classifier type %q", c.Classifier.Type)
	}
	switch c.FilenameGenerator.Type {
	case "template", "ai", "custom":
	default:
		return fmt.Errorf("config: unknown filename generator type %q", c.FilenameGenerator.Type)
	}
	if len(c.SupportedExtensions) == 0 {
		return fmt.Errorf("config: supported_extensions must not be empty")
	}
	if c.FilenameGenerator.MaxLength <= 0 {
		return fmt.Errorf("config: filename_generator.max_length must be positive")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config: pipeline.workers must be at least 1")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
