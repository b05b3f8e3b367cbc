package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Section names of the settings file.
const (
	SectionGlobals       = "globals"
	SectionGraph         = "graph"
	SectionGraphDelay    = "graph.delay"
	SectionGraphDelivery = "graph.delivery"
	SectionGraphStats    = "graph.stats"
	SectionStats         = "stats"
)

// ErrInvalidSetting is returned for setting keys that do not name a known section.
var ErrInvalidSetting = errors.New("not a valid settings key")

// ErrSettingNotFound is returned when a section or key is absent from the settings file.
var ErrSettingNotFound = errors.New("setting not found")

// Setting is one key of a section.
type Setting struct {
	Key   string
	Value string
}

// Section is a named group of settings.
type Section struct {
	Name     string
	Settings []Setting
}

const defaultStats = "created, started, relayed, aborted, dropped, delivered, delivery_prob"

// FactoryDefaults are written on first use and by Restore.
var FactoryDefaults = []Section{
	{Name: SectionGlobals, Settings: []Setting{
		{Key: "estimator", Value: "median"},
		{Key: "output_dir", Value: "./output/"},
		{Key: "reports_dir", Value: "../reports/"},
	}},
	{Name: SectionGraph, Settings: []Setting{
		{Key: "format", Value: "png"},
		{Key: "width", Value: "1024"},
		{Key: "height", Value: "640"},
	}},
	{Name: SectionGraphDelivery, Settings: []Setting{{Key: "quant", Value: "300"}}},
	{Name: SectionGraphDelay, Settings: []Setting{{Key: "quant", Value: "300"}}},
	{Name: SectionGraphStats, Settings: []Setting{{Key: "stat", Value: defaultStats}}},
	{Name: SectionStats, Settings: []Setting{{Key: "stat", Value: defaultStats}}},
}

// Store reads and writes the INI settings file. Every call reloads the file,
// so edits made by other processes are picked up.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the file at path. A nil fs uses the OS filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*ini.File, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings file %s: %w", s.path, err)
	}
	if !exists {
		if err := s.Restore(); err != nil {
			return nil, err
		}
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", s.path, err)
	}
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}
	return cfg, nil
}

func (s *Store) save(cfg *ini.File) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) key(section, key string) (*ini.Key, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	sec, err := cfg.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("section %q in %s: %w", section, s.path, ErrSettingNotFound)
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return nil, fmt.Errorf("key %q in section %q: %w", key, section, ErrSettingNotFound)
	}
	return k, nil
}

func (s *Store) GetString(section, key string) (string, error) {
	k, err := s.key(section, key)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

func (s *Store) GetInt(section, key string) (int, error) {
	k, err := s.key(section, key)
	if err != nil {
		return 0, err
	}
	v, err := k.Int()
	if err != nil {
		return 0, fmt.Errorf("setting %s.%s is not an integer: %w", section, key, err)
	}
	return v, nil
}

// GetList splits a comma separated value and trims every element.
func (s *Store) GetList(section, key string) ([]string, error) {
	k, err := s.key(section, key)
	if err != nil {
		return nil, err
	}
	return SplitList(k.String()), nil
}

// SplitList splits a comma separated value, dropping blank elements.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Set stores value under an existing section. Keys may be new.
func (s *Store) Set(section, key, value string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	sec, err := cfg.GetSection(section)
	if err != nil || section == ini.DefaultSection {
		return fmt.Errorf("'%s.%s' is %w", section, key, ErrInvalidSetting)
	}
	sec.Key(key).SetValue(value)
	return s.save(cfg)
}

// Sections lists the section names in file order.
func (s *Store) Sections() ([]string, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		names = append(names, sec.Name())
	}
	return names, nil
}

// All returns every section with its settings in file order.
func (s *Store) All() ([]Section, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []Section
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		section := Section{Name: sec.Name()}
		for _, k := range sec.Keys() {
			section.Settings = append(section.Settings, Setting{Key: k.Name(), Value: k.String()})
		}
		out = append(out, section)
	}
	return out, nil
}

// Restore overwrites the whole file with FactoryDefaults.
func (s *Store) Restore() error {
	cfg := ini.Empty()
	for _, section := range FactoryDefaults {
		sec, err := cfg.NewSection(section.Name)
		if err != nil {
			return fmt.Errorf("failed to create section %q: %w", section.Name, err)
		}
		for _, setting := range section.Settings {
			if _, err := sec.NewKey(setting.Key, setting.Value); err != nil {
				return fmt.Errorf("failed to create key %s.%s: %w", section.Name, setting.Key, err)
			}
		}
	}
	return s.save(cfg)
}

// ParseSettingKey splits "section.key" on the last dot, so section names may contain dots.
func ParseSettingKey(setting string) (section, key string, err error) {
	i := strings.LastIndex(setting, ".")
	if i <= 0 || i == len(setting)-1 {
		return "", "", fmt.Errorf("'%s' is %w", setting, ErrInvalidSetting)
	}
	return setting[:i], setting[i+1:], nil
}
