package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/masmgr/pvcslog-go/internal/bugfix"
	"github.com/masmgr/pvcslog-go/internal/pvcs"
)

// DefaultFileNames are the config files searched for, in order, in the
// working directory and then the home directory.
var DefaultFileNames = []string{".pvcslog.json", ".pvcslog.yaml", ".pvcslog.yml"}

// Config is the root configuration structure.
type Config struct {
	PVCS     PVCSConfig    `json:"pvcs" yaml:"pvcs"`
	Parser   ParserConfig  `json:"parser" yaml:"parser"`
	Bugfix   BugfixConfig  `json:"bugfix" yaml:"bugfix"`
	Filters  FilterConfig  `json:"filters" yaml:"filters"`
	Hotspots HotspotConfig `json:"hotspots" yaml:"hotspots"`
}

// PVCSConfig describes how to invoke the PVCS command-line client.
type PVCSConfig struct {
	Executable      string `json:"executable" yaml:"executable"`           // Default: pcli
	ProjectRoot     string `json:"projectRoot" yaml:"projectRoot"`         // -pr
	ArchiveRoot     string `json:"archiveRoot" yaml:"archiveRoot"`         // Repository prefix stripped from archive paths
	ChangeLogPrefix string `json:"changeLogPrefix" yaml:"changeLogPrefix"` // Prepended to every file name
	ModuleDir       string `json:"moduleDir" yaml:"moduleDir"`             // -z
	LoginID         string `json:"loginId" yaml:"loginId"`                 // -id
	Workspace       string `json:"workspace" yaml:"workspace"`             // -sp
	PromotionGroup  string `json:"promotionGroup" yaml:"promotionGroup"`   // -g
	VersionLabel    string `json:"versionLabel" yaml:"versionLabel"`       // -v
	InputDateFormat string `json:"inputDateFormat" yaml:"inputDateFormat"` // Go layout for -ds/-de
	ExtraArgs       string `json:"extraArgs" yaml:"extraArgs"`
}

// ParserConfig holds vlog output parsing options.
type ParserConfig struct {
	ArchiveFileSuffix string `json:"archiveFileSuffix" yaml:"archiveFileSuffix"` // Default: _v
	TimeZone          string `json:"timeZone" yaml:"timeZone"`                   // IANA name; empty means local
}

// Location resolves TimeZone.
func (p ParserConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(p.TimeZone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", p.TimeZone, err)
	}
	return loc, nil
}

// BugfixConfig holds bugfix detection configuration.
type BugfixConfig struct {
	Patterns []string `json:"patterns" yaml:"patterns"` // Regex patterns matched against check-in comments
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// HotspotConfig holds options for the hotspots command.
type HotspotConfig struct {
	AnalysisWindowYears int `json:"analysisWindowYears" yaml:"analysisWindowYears"` // Default: 3
	MaxHotspots         int `json:"maxHotspots" yaml:"maxHotspots"`                 // Default: 100
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		PVCS: PVCSConfig{
			Executable:      pvcs.DefaultExecutable,
			InputDateFormat: pvcs.DefaultVlogDateFormat,
		},
		Parser: ParserConfig{
			ArchiveFileSuffix: pvcs.DefaultArchiveFileSuffix,
		},
		Bugfix: BugfixConfig{
			Patterns: append([]string(nil), bugfix.DefaultPatterns...),
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Hotspots: HotspotConfig{
			AnalysisWindowYears: 3,
			MaxHotspots:         100,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// An empty path searches DefaultFileNames; finding none yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file, as YAML when the extension is
// .yaml or .yml and as JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range DefaultFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
