package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// GroupEntry is one pattern/name pair.
type GroupEntry struct {
	Pattern string `mapstructure:"pattern"`
	Name    string `mapstructure:"name"`
}

// GroupFile lists report groups in YAML, TOML or JSON.
//
//	base_dir: ../reports
//	groups:
//	  - pattern: "*_epidemic_*"
//	    name: epidemic
type GroupFile struct {
	BaseDir string       `mapstructure:"base_dir"`
	Groups  []GroupEntry `mapstructure:"groups"`
}

// LoadGroupFile reads a group file. The format follows the file extension.
// A nil fs uses the OS filesystem.
func LoadGroupFile(fs afero.Fs, path string) (*GroupFile, error) {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read group file: %w", err)
	}

	var gf GroupFile
	if err := v.Unmarshal(&gf); err != nil {
		return nil, fmt.Errorf("failed to parse group file %s: %w", path, err)
	}
	for i, g := range gf.Groups {
		if g.Pattern == "" || g.Name == "" {
			return nil, fmt.Errorf("group %d in %s needs both a pattern and a name", i+1, path)
		}
	}
	return &gf, nil
}

// ParseGroupArg parses PATTERN=NAME. The split happens on the last '=' so patterns may contain one.
func ParseGroupArg(arg string) (GroupEntry, error) {
	i := strings.LastIndex(arg, "=")
	if i <= 0 || i == len(arg)-1 {
		return GroupEntry{}, fmt.Errorf("invalid group %q, expected PATTERN=NAME", arg)
	}
	return GroupEntry{Pattern: arg[:i], Name: arg[i+1:]}, nil
}

// Specs builds group specs: file groups first, then args. The file's base_dir
// applies to its own groups; baseDir applies to args and to file groups without one.
func Specs(file *GroupFile, args []string, baseDir string) ([]reports.Spec, error) {
	var specs []reports.Spec
	if file != nil {
		dir := baseDir
		if file.BaseDir != "" {
			dir = file.BaseDir
		}
		for _, g := range file.Groups {
			specs = append(specs, reports.Spec{Pattern: g.Pattern, Name: g.Name, BaseDir: dir})
		}
	}
	for _, arg := range args {
		g, err := ParseGroupArg(arg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, reports.Spec{Pattern: g.Pattern, Name: g.Name, BaseDir: baseDir})
	}
	return specs, nil
}
