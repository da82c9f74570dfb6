// Package config loads pm configuration from JSONC files and CLI overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/pm/internal/query"
)

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrViewsFileEmpty     = errors.New("views_file cannot be empty")
	ErrInvalidSort        = errors.New("invalid default_sort")
	ErrInvalidOrder       = errors.New("invalid default_order (must be asc|desc)")
	ErrInvalidLogLevel    = errors.New("invalid log_level")
)

// FileName is the project config file looked up in the working directory.
const FileName = ".pm.json"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	SeedFile     string `json:"seed_file,omitempty"`
	ViewsFile    string `json:"views_file"`
	DefaultSort  string `json:"default_sort"`
	DefaultOrder string `json:"default_order"`
	LogLevel     string `json:"log_level"`
	Strict       bool   `json:"strict"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"`
	SeedFileAbs  string `json:"-"` // empty when the built-in dataset is used
	ViewsFileAbs string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// fileConfig mirrors Config with optional fields, so a file can set a value
// back to its zero value.
type fileConfig struct {
	SeedFile     *string `json:"seed_file"`
	ViewsFile    *string `json:"views_file"`
	DefaultSort  *string `json:"default_sort"`
	DefaultOrder *string `json:"default_order"`
	LogLevel     *string `json:"log_level"`
	Strict       *bool   `json:"strict"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ViewsFile:    ".pm-views.json",
		DefaultSort:  string(query.DefaultSortKey),
		DefaultOrder: string(query.DefaultOrder),
		LogLevel:     zerolog.WarnLevel.String(),
	}
}

// BaseSpec returns the query spec commands start from before applying flags.
func (c Config) BaseSpec() query.Spec {
	return query.Spec{SortBy: query.SortKey(c.DefaultSort), SortOrder: query.Order(c.DefaultOrder)}
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}

	return level
}

// GlobalPath returns the global config path: $XDG_CONFIG_HOME/pm/config.json
// if set, otherwise ~/.config/pm/config.json. Empty when neither is known.
func GlobalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "pm", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "pm", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string // -C/--cwd; os.Getwd() when empty
	ConfigPath       string // -c/--config
	SeedFileOverride string // --seed
	LogLevelOverride string // set by -v/--verbose
	Env              map[string]string
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config (.pm.json in the working directory, if present)
// 4. Explicit config file via ConfigPath
// 5. CLI overrides.
//
// Relative paths are resolved against the working directory.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if globalPath := GlobalPath(input.Env); globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, globalCfg)
			cfg.Sources.Global = globalPath
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false
	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
	}

	projectCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, projectCfg)
		cfg.Sources.Project = projectPath
	}

	if input.SeedFileOverride != "" {
		cfg.SeedFile = input.SeedFileOverride
	}

	if input.LogLevelOverride != "" {
		cfg.LogLevel = input.LogLevelOverride
	}

	validateErr := validate(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir
	cfg.ViewsFileAbs = resolve(workDir, cfg.ViewsFile)

	if cfg.SeedFile != "" {
		cfg.SeedFileAbs = resolve(workDir, cfg.SeedFile)
	}

	return cfg, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadFile reads one config file. Missing optional files are not an error.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !mustExist {
			return fileConfig{}, false, nil
		}

		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if cfg.ViewsFile != nil && strings.TrimSpace(*cfg.ViewsFile) == "" {
		return fileConfig{}, ErrViewsFileEmpty
	}

	return cfg, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.SeedFile != nil {
		base.SeedFile = *overlay.SeedFile
	}

	if overlay.ViewsFile != nil {
		base.ViewsFile = *overlay.ViewsFile
	}

	if overlay.DefaultSort != nil {
		base.DefaultSort = *overlay.DefaultSort
	}

	if overlay.DefaultOrder != nil {
		base.DefaultOrder = *overlay.DefaultOrder
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	if overlay.Strict != nil {
		base.Strict = *overlay.Strict
	}

	return base
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.ViewsFile) == "" {
		return ErrViewsFileEmpty
	}

	if _, ok := query.ParseSortKey(cfg.DefaultSort); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSort, cfg.DefaultSort)
	}

	if _, ok := query.ParseOrder(cfg.DefaultOrder); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, cfg.DefaultOrder)
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil || cfg.LogLevel == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

// Marshal renders the serializable part of cfg as indented JSON.
func Marshal(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndentWithOption(cfg, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return data, nil
}
