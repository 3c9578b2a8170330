package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is wrapped by a FileError whose extension is not
// .yaml, .yml or .json.
var ErrUnsupportedFormat = errors.New("unsupported settings format")

// FileError reports a settings file that could not be used. Op is "read"
// or "decode".
type FileError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s settings %s=%s: %v", e.Op, PathVar, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// FromFile loads the settings document at path. The format follows the
// extension. Every failure is a *FileError.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &FileError{Path: path, Op: "read", Err: err}
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	case ".json":
		cfg, err = FromJSON(data)
	default:
		err = fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Config{}, &FileError{Path: path, Op: "decode", Err: err}
	}
	return cfg, nil
}

// FromYAML decodes a YAML settings document. An empty document is an
// empty Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON decodes a JSON settings document.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("json: %w", err)
	}
	return New(m), nil
}
