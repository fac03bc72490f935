package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/nugetviz/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const tomlConfig = `
[feed]
url = "https://pkgs.example.com/nuget/v3/index.json"
username = "ci"
password_env = "NUGETVIZ_TEST_PASSWORD"
timeout = "30s"
concurrency = 4

[output]
type = "dot"
path = "out"
name = "deps"
whole_diagram = false
project_diagrams = true

[cache]
dir = "/tmp/nugetviz"
ttl = "2h"
redis_addr = "localhost:6379"

[colors.dgml]
version_mismatch = "#AA0000"

[colors.graphviz]
consistent = "lightgrey"
`

const yamlConfig = `
feed:
  url: https://pkgs.example.com/nuget/v3/index.json
  username: ci
  password_env: NUGETVIZ_TEST_PASSWORD
  timeout: 30s
  concurrency: 4
output:
  type: dot
  path: out
  name: deps
  whole_diagram: false
  project_diagrams: true
cache:
  dir: /tmp/nugetviz
  ttl: 2h
  redis_addr: localhost:6379
colors:
  dgml:
    version_mismatch: "#AA0000"
  graphviz:
    consistent: lightgrey
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "TOML", file: "nugetviz.toml", content: tomlConfig},
		{name: "YAML", file: "nugetviz.yaml", content: yamlConfig},
		{name: "YML", file: "nugetviz.yml", content: yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}

			if cfg.Path != path {
				t.Errorf("Path = %q", cfg.Path)
			}
			if cfg.Feed.URL != "https://pkgs.example.com/nuget/v3/index.json" || cfg.Feed.Username != "ci" {
				t.Errorf("Feed = %+v", cfg.Feed)
			}
			if cfg.Feed.Timeout != 30*time.Second || cfg.Feed.Concurrency != 4 {
				t.Errorf("Feed timeout, concurrency = %v, %d", cfg.Feed.Timeout, cfg.Feed.Concurrency)
			}
			if cfg.Output.Type != "dot" || cfg.Output.Path != "out" || cfg.Output.Name != "deps" {
				t.Errorf("Output = %+v", cfg.Output)
			}
			if cfg.Output.WholeDiagram == nil || *cfg.Output.WholeDiagram {
				t.Error("WholeDiagram should be explicitly false")
			}
			if cfg.Output.ProjectDiagrams == nil || !*cfg.Output.ProjectDiagrams {
				t.Error("ProjectDiagrams should be explicitly true")
			}
			if cfg.Cache.TTL != 2*time.Hour || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.Disabled {
				t.Errorf("Cache = %+v", cfg.Cache)
			}
			if cfg.Colors.Palette("dgml").VersionMismatch != "#AA0000" {
				t.Errorf("Colors.DGML = %+v", cfg.Colors.DGML)
			}
			if cfg.Colors.Palette("svg").Consistent != "lightgrey" {
				t.Errorf("Colors.Graphviz = %+v", cfg.Colors.Graphviz)
			}
		})
	}
}

func TestLoadUnsetSwitches(t *testing.T) {
	path := writeConfig(t, "nugetviz.toml", "[feed]\nusername = \"me\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.WholeDiagram != nil || cfg.Output.ProjectDiagrams != nil {
		t.Error("absent diagram switches should stay nil")
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeConfig(t, "nugetviz.yaml", "")
	if _, err := Load(path); err != nil {
		t.Errorf("Load(empty) error: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{name: "UnknownTOMLKey", file: "c.toml", content: "[feed]\nurll = \"x\"\n", code: errors.ErrCodeInvalidInput},
		{name: "UnknownYAMLKey", file: "c.yaml", content: "feed:\n  urll: x\n", code: errors.ErrCodeInvalidInput},
		{name: "BadTOML", file: "c.toml", content: "[feed\n", code: errors.ErrCodeInvalidInput},
		{name: "BadExtension", file: "c.json", content: "{}", code: errors.ErrCodeInvalidInput},
		{name: "BadOutputType", file: "c.toml", content: "[output]\ntype = \"pdf\"\n", code: errors.ErrCodeInvalidFormat},
		{name: "BadFeedURL", file: "c.toml", content: "[feed]\nurl = \"ftp://feed\"\n", code: errors.ErrCodeInvalidInput},
		{name: "NegativeConcurrency", file: "c.toml", content: "[feed]\nconcurrency = -1\n", code: errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})
}

func TestFeedPassword(t *testing.T) {
	t.Setenv("NUGETVIZ_TEST_PASSWORD", "s3cret")
	if got := (Feed{PasswordEnv: "NUGETVIZ_TEST_PASSWORD"}).Password(); got != "s3cret" {
		t.Errorf("Password() = %q", got)
	}
	if got := (Feed{}).Password(); got != "" {
		t.Errorf("Password() without env = %q", got)
	}
}

func TestFind(t *testing.T) {
	t.Run("Explicit", func(t *testing.T) {
		path := writeConfig(t, "custom.yaml", "")
		got, err := Find(path)
		if err != nil || got != path {
			t.Errorf("Find(%q) = %q, %v", path, got, err)
		}
	})

	t.Run("ExplicitMissing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})

	t.Run("UserConfigDir", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Chdir(t.TempDir())

		got, err := Find("")
		if err != nil || got != "" {
			t.Fatalf("Find() with no files = %q, %v", got, err)
		}

		path := filepath.Join(xdg, "nugetviz", "config.toml")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if got, _ := Find(""); got != path {
			t.Errorf("Find() = %q, want %q", got, path)
		}

		if err := os.WriteFile(FileName, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if got, _ := Find(""); got != FileName {
			t.Errorf("Find() = %q, want working directory file", got)
		}
	})
}

func TestDiscoverNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfg, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Feed.URL != "" {
		t.Errorf("Discover() = %+v, want empty config", cfg)
	}
}
