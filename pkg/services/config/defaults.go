package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SIMREPORT_REPORTS_DIR.
const EnvPrefix = "SIMREPORT"

const configFileName = "config.ini"

// Defaults are the values commands fall back to when a flag is not given.
type Defaults struct {
	Estimator     string   `mapstructure:"estimator"`
	OutputDir     string   `mapstructure:"output_dir"`
	ReportsDir    string   `mapstructure:"reports_dir"`
	GraphFormat   string   `mapstructure:"graph_format"`
	GraphWidth    int      `mapstructure:"graph_width"`
	GraphHeight   int      `mapstructure:"graph_height"`
	DelayQuant    int      `mapstructure:"delay_quant"`
	DeliveryQuant int      `mapstructure:"delivery_quant"`
	GraphStats    []string `mapstructure:"graph_stats"`
	Stats         []string `mapstructure:"stats"`
}

type source struct {
	key     string
	section string
	name    string
	list    bool
}

var sources = []source{
	{key: "estimator", section: SectionGlobals, name: "estimator"},
	{key: "output_dir", section: SectionGlobals, name: "output_dir"},
	{key: "reports_dir", section: SectionGlobals, name: "reports_dir"},
	{key: "graph_format", section: SectionGraph, name: "format"},
	{key: "graph_width", section: SectionGraph, name: "width"},
	{key: "graph_height", section: SectionGraph, name: "height"},
	{key: "delay_quant", section: SectionGraphDelay, name: "quant"},
	{key: "delivery_quant", section: SectionGraphDelivery, name: "quant"},
	{key: "graph_stats", section: SectionGraphStats, name: "stat", list: true},
	{key: "stats", section: SectionStats, name: "stat", list: true},
}

// LoadDefaults reads the settings store and applies SIMREPORT_* environment overrides.
// Settings missing from the store fall back to the factory defaults.
func LoadDefaults(store *Store) (*Defaults, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for _, src := range sources {
		value, err := store.GetString(src.section, src.name)
		if errors.Is(err, ErrSettingNotFound) {
			value = factoryValue(src.section, src.name)
		} else if err != nil {
			return nil, err
		}
		if src.list {
			v.SetDefault(src.key, SplitList(value))
			continue
		}
		v.SetDefault(src.key, value)
	}

	var d Defaults
	if err := v.Unmarshal(&d); err != nil {
		return nil, fmt.Errorf("failed to parse defaults: %w", err)
	}
	return &d, nil
}

func factoryValue(section, key string) string {
	for _, s := range FactoryDefaults {
		if s.Name != section {
			continue
		}
		for _, setting := range s.Settings {
			if setting.Key == key {
				return setting.Value
			}
		}
	}
	return ""
}

// ResolvePath picks the settings file: the explicit flag, then SIMREPORT_CONFIG,
// then config.ini in the user config directory.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv("config")
	if p := v.GetString("config"); p != "" {
		return p
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(dir, "simreport", configFileName)
}
