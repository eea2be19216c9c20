// Package settings loads tlgen configuration from .tlgen/settings.yaml.
//
// Every key is optional:
//
//	tool: tlgen                          # generator named in the comment line
//	timestamp_format: "%a %b %e %H:%M:%S %Y"
//	progress: true                       # progress bar on a terminal
//	log_level: info
//	formats:                             # extension -> reader name
//	  .blif2: eqn
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lestrrat-go/strftime"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"tlgen/internal/tlcd"
)

// Settings holds tlgen configuration. A nil *Settings behaves as the defaults.
type Settings struct {
	Tool            string            `yaml:"tool,omitempty"`
	TimestampFormat string            `yaml:"timestamp_format,omitempty"`
	Progress        *bool             `yaml:"progress,omitempty"`
	LogLevel        string            `yaml:"log_level,omitempty"`
	Formats         map[string]string `yaml:"formats,omitempty"`
}

// Path returns the settings file location under root.
func Path(root string) string {
	return filepath.Join(root, ".tlgen", "settings.yaml")
}

// Load reads .tlgen/settings.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(fs afero.Fs, root string) (*Settings, error) {
	path := Path(root)
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Save writes s to .tlgen/settings.yaml under root, creating the directory.
func (s *Settings) Save(fs afero.Fs, root string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	path := Path(root)
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate checks the timestamp pattern, the log level and the format map.
func (s *Settings) Validate() error {
	if s == nil {
		return nil
	}
	if s.TimestampFormat != "" {
		if _, err := strftime.New(s.TimestampFormat); err != nil {
			return fmt.Errorf("timestamp_format %q: %w", s.TimestampFormat, err)
		}
	}
	if s.LogLevel != "" {
		if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	for _, ext := range sortedKeys(s.Formats) {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("formats: extension %q must start with a dot", ext)
		}
		if s.Formats[ext] == "" {
			return fmt.Errorf("formats: extension %q has no reader", ext)
		}
	}
	return nil
}

// ToolName returns the generator name. Safe on a nil receiver.
func (s *Settings) ToolName() string {
	if s == nil || s.Tool == "" {
		return tlcd.DefaultTool
	}
	return s.Tool
}

// TimeFormat returns the strftime pattern. Safe on a nil receiver.
func (s *Settings) TimeFormat() string {
	if s == nil || s.TimestampFormat == "" {
		return tlcd.DefaultTimeFormat
	}
	return s.TimestampFormat
}

// ShowProgress reports whether a progress bar is wanted. Safe on a nil receiver.
func (s *Settings) ShowProgress() bool {
	if s == nil || s.Progress == nil {
		return true
	}
	return *s.Progress
}

// Level returns the log level. Safe on a nil receiver; Load has already
// rejected unknown names.
func (s *Settings) Level() logrus.Level {
	if s == nil || s.LogLevel == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// FormatOverrides returns the extension map with lower-cased keys.
// Safe on a nil receiver.
func (s *Settings) FormatOverrides() map[string]string {
	if s == nil || len(s.Formats) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.Formats))
	for ext, name := range s.Formats {
		out[strings.ToLower(ext)] = name
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
