package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/morozRed/crumbtrail/internal/config"
	"github.com/spf13/cobra"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatJSONL = "jsonl"
)

// ErrValidationFailed is returned by "validate --strict" when errors were found.
var ErrValidationFailed = errors.New("breadcrumb validation failed")

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// ParseOutputFormat resolves the output format from --json, --yaml, --format
// and finally the configured default, in that order.
func ParseOutputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	asJSON, err := OptionalBoolFlag(cmd, "json")
	if err != nil {
		return "", err
	}
	if asJSON {
		return FormatJSON, nil
	}
	asYAML, err := OptionalBoolFlag(cmd, "yaml")
	if err != nil {
		return "", err
	}
	if asYAML {
		return FormatYAML, nil
	}

	value, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return "", err
	}
	if value == "" {
		if cfg == nil {
			return FormatText, nil
		}
		value = cfg.Output.Format
	}

	switch value = strings.ToLower(value); value {
	case FormatText, FormatJSON, FormatYAML, FormatJSONL:
		return value, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: text, json, yaml, jsonl)", value)
	}
}

// ParseLocation splits a "file:line" argument. The file part is cleaned and
// slash-separated so it matches breadcrumb paths.
func ParseLocation(value string) (string, int, error) {
	idx := strings.LastIndex(value, ":")
	if idx <= 0 || idx == len(value)-1 {
		return "", 0, fmt.Errorf("invalid location %q (expected file:line)", value)
	}
	line, err := strconv.Atoi(value[idx+1:])
	if err != nil || line < 1 {
		return "", 0, fmt.Errorf("invalid line number in %q", value)
	}
	file := filepath.ToSlash(filepath.Clean(value[:idx]))
	return file, line, nil
}
