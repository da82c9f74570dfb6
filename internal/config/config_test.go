package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/pm/internal/query"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := Load(LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ViewsFileAbs != filepath.Join(dir, ".pm-views.json") {
		t.Errorf("ViewsFileAbs = %q", cfg.ViewsFileAbs)
	}

	if cfg.SeedFileAbs != "" {
		t.Errorf("SeedFileAbs = %q, want empty", cfg.SeedFileAbs)
	}

	if cfg.Level() != zerolog.WarnLevel {
		t.Errorf("Level = %v, want warn", cfg.Level())
	}

	spec := cfg.BaseSpec()
	if spec.SortBy != query.SortVotes || spec.SortOrder != query.Desc {
		t.Errorf("BaseSpec = %+v", spec)
	}

	if cfg.Sources.Global != "" || cfg.Sources.Project != "" {
		t.Errorf("unexpected sources %+v", cfg.Sources)
	}
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")
	work := filepath.Join(dir, "work")

	writeFile(t, filepath.Join(xdg, "pm", "config.json"), `{
		// global defaults
		"default_sort": "title",
		"default_order": "asc",
		"log_level": "info",
		"strict": true,
	}`)
	writeFile(t, filepath.Join(work, FileName), `{"default_sort": "riceScore", "seed_file": "data/seed.yaml"}`)
	writeFile(t, filepath.Join(work, "other.json"), `{"strict": false}`)

	env := map[string]string{"XDG_CONFIG_HOME": xdg}

	cfg, err := Load(LoadInput{WorkDirOverride: work, Env: env})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DefaultSort != "riceScore" || cfg.DefaultOrder != "asc" || !cfg.Strict {
		t.Errorf("merged config = %+v", cfg)
	}

	if cfg.SeedFileAbs != filepath.Join(work, "data", "seed.yaml") {
		t.Errorf("SeedFileAbs = %q", cfg.SeedFileAbs)
	}

	if cfg.Sources.Global == "" || cfg.Sources.Project != filepath.Join(work, FileName) {
		t.Errorf("sources = %+v", cfg.Sources)
	}

	cfg, err = Load(LoadInput{
		WorkDirOverride:  work,
		ConfigPath:       "other.json",
		SeedFileOverride: "/abs/seed.json",
		LogLevelOverride: "debug",
		Env:              env,
	})
	if err != nil {
		t.Fatalf("Load with overrides: %v", err)
	}

	if cfg.Strict {
		t.Error("explicit config should turn strict back off")
	}

	if cfg.DefaultSort != "title" {
		t.Errorf("explicit config replaces project file; DefaultSort = %q", cfg.DefaultSort)
	}

	if cfg.SeedFileAbs != "/abs/seed.json" || cfg.Level() != zerolog.DebugLevel {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		path    string
		want    error
	}{
		{"missing explicit file", "", "missing.json", ErrConfigFileNotFound},
		{"bad jsonc", `{"default_sort": }`, "c.json", ErrConfigInvalid},
		{"empty views file", `{"views_file": " "}`, "c.json", ErrViewsFileEmpty},
		{"bad sort", `{"default_sort": "hotness"}`, "c.json", ErrInvalidSort},
		{"bad order", `{"default_order": "up"}`, "c.json", ErrInvalidOrder},
		{"bad level", `{"log_level": "loud"}`, "c.json", ErrInvalidLogLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if testCase.content != "" {
				writeFile(t, filepath.Join(dir, testCase.path), testCase.content)
			}

			_, err := Load(LoadInput{WorkDirOverride: dir, ConfigPath: testCase.path, Env: map[string]string{}})
			if !errors.Is(err, testCase.want) {
				t.Errorf("Load error = %v, want %v", err, testCase.want)
			}
		})
	}
}

func TestGlobalPath(t *testing.T) {
	t.Parallel()

	if got := GlobalPath(map[string]string{"XDG_CONFIG_HOME": "/x", "HOME": "/h"}); got != "/x/pm/config.json" {
		t.Errorf("GlobalPath(xdg) = %q", got)
	}

	if got := GlobalPath(map[string]string{"HOME": "/h"}); got != "/h/.config/pm/config.json" {
		t.Errorf("GlobalPath(home) = %q", got)
	}

	if got := GlobalPath(nil); got != "" {
		t.Errorf("GlobalPath(nil) = %q", got)
	}
}
