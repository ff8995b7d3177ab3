package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the scan root.
	FileName  = ".crumbtrail"
	EnvPrefix = "CRUMBTRAIL"
)

// DefaultExtensions are the C-family and other "//" or "/* */" commented
// languages scanned when no extension list is configured.
var DefaultExtensions = []string{
	".c", ".h", ".cc", ".cpp", ".hpp", ".cxx", ".m",
	".go", ".rs", ".java", ".js", ".ts", ".swift", ".kt", ".cs",
}

var configValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})
	return v
}

// Config is the crumbtrail configuration.
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan"`
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

type ScanConfig struct {
	Extensions []string `mapstructure:"extensions" validate:"dive,startswith=."`
	Ignore     []string `mapstructure:"ignore"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gt=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=text json yaml jsonl"`
	Color  bool   `mapstructure:"color"`
}

// Load reads .crumbtrail.yaml from root (if present) and CRUMBTRAIL_*
// environment variables on top of the defaults.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("scan.extensions", DefaultExtensions)
	v.SetDefault("scan.ignore", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if root != "" {
		v.AddConfigPath(root)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Scan:   ScanConfig{Extensions: append([]string(nil), DefaultExtensions...)},
		Log:    LogConfig{Level: "warn", MaxSizeMB: 10, MaxBackups: 3},
		Output: OutputConfig{Format: "text", Color: true},
	}
}

func normalize(cfg *Config) {
	exts := make([]string, 0, len(cfg.Scan.Extensions))
	for _, ext := range cfg.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	cfg.Scan.Extensions = exts
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
}

// validateConfig reports the first invalid field by its config key, e.g.
// "output.format must satisfy oneof=text json yaml jsonl, got: xml".
func validateConfig(cfg *Config) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := fieldErrs[0]
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return fmt.Errorf("%s must satisfy %s, got: %v", key, rule, fe.Value())
}
