package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mazrean/bullet/internal/bullet"
	"github.com/mazrean/bullet/internal/pkg/errors"
	"github.com/mazrean/bullet/internal/watch"
)

// configFileNames are looked up in order by Discover.
var configFileNames = []string{"bullet.yaml", "bullet.yml", "bullet.toml"}

// File is the content of a bullet.yaml or bullet.toml configuration file.
type File struct {
	Suffix   string `yaml:"suffix" toml:"suffix"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
	Jobs     int    `yaml:"jobs" toml:"jobs"`
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// Settings are the effective generator settings.
type Settings struct {
	Suffix   string
	Prefix   string
	Jobs     int
	Debounce time.Duration
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Suffix:   bullet.DefaultSuffix,
		Prefix:   bullet.DefaultPrefix,
		Jobs:     bullet.DefaultJobs,
		Debounce: watch.DefaultDebounce,
	}
}

// Merge returns s with the values set in f.
func (s Settings) Merge(f *File) (Settings, error) {
	if f.Suffix != "" {
		s.Suffix = f.Suffix
	}
	if f.Prefix != "" {
		s.Prefix = f.Prefix
	}
	if f.Jobs != 0 {
		if f.Jobs < 0 {
			return Settings{}, errors.Newf("jobs must be positive, got %d", f.Jobs)
		}
		s.Jobs = f.Jobs
	}
	if f.Debounce != "" {
		d, err := parseDuration(f.Debounce)
		if err != nil {
			return Settings{}, errors.Wrap(err, "debounce")
		}
		s.Debounce = d
	}

	return s, nil
}

// Override returns s with the non-zero command line values.
func (s Settings) Override(suffix, prefix string, jobs int) Settings {
	if suffix != "" {
		s.Suffix = suffix
	}
	if prefix != "" {
		s.Prefix = prefix
	}
	if jobs > 0 {
		s.Jobs = jobs
	}

	return s
}

// Options returns the processor options of s.
func (s Settings) Options() bullet.Options {
	return bullet.Options{
		Suffix: s.Suffix,
		Prefix: s.Prefix,
		Jobs:   s.Jobs,
	}
}

// Discover returns the first configuration file found in dir.
func Discover(dir string) (string, bool) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}

	return "", false
}

// LoadFile reads a YAML or TOML configuration file, chosen by extension.
// Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	var file File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and leaves the defaults.
		if err := dec.Decode(&file); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return nil, errors.Wrapf(err, "decode YAML config file %s", path)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return nil, errors.Wrapf(err, "decode TOML config file %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Newf("unknown key %s in config file %s", undecoded[0], path)
		}
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported config file extension %q", ext),
			"use a .yaml, .yml or .toml file",
		)
	}

	return &file, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse duration %q", s)
	}
	if d <= 0 {
		return 0, errors.Newf("duration must be positive, got %s", s)
	}

	return d, nil
}
