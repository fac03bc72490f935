// Package config loads optional nugetviz configuration files.
//
// A config file supplies defaults for the command-line flags. TOML and YAML
// are both accepted, chosen by file extension:
//
//	[feed]
//	url = "https://pkgs.example.com/nuget/v3/index.json"
//	username = "ci"
//	password_env = "NUGET_PASSWORD"
//
//	[output]
//	type = "graphviz"
//	project_diagrams = true
//
//	[colors.graphviz]
//	consistent = "lightgrey"
//
// [Find] resolves which file to use; [Load] parses it. Unknown keys are
// rejected so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/render"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = "nugetviz.toml"

// Config is the parsed configuration file. Zero values mean "not set".
type Config struct {
	Feed   Feed   `toml:"feed" yaml:"feed"`
	Output Output `toml:"output" yaml:"output"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Colors Colors `toml:"colors" yaml:"colors"`

	// Path is the file the config was loaded from.
	Path string `toml:"-" yaml:"-"`
}

// Feed configures the package feed.
type Feed struct {
	URL         string        `toml:"url" yaml:"url"`
	Username    string        `toml:"username" yaml:"username"`
	PasswordEnv string        `toml:"password_env" yaml:"password_env"`
	Timeout     time.Duration `toml:"timeout" yaml:"timeout"`
	Concurrency int           `toml:"concurrency" yaml:"concurrency"`
}

// Password returns the value of the PasswordEnv variable, if any.
func (f Feed) Password() string {
	if f.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(f.PasswordEnv)
}

// Output configures generated diagrams. The diagram switches are pointers so
// an explicit false can be told apart from an absent key.
type Output struct {
	Type            string `toml:"type" yaml:"type"`
	Path            string `toml:"path" yaml:"path"`
	Name            string `toml:"name" yaml:"name"`
	WholeDiagram    *bool  `toml:"whole_diagram" yaml:"whole_diagram"`
	ProjectDiagrams *bool  `toml:"project_diagrams" yaml:"project_diagrams"`
}

// Cache configures the feed response cache.
type Cache struct {
	Dir       string        `toml:"dir" yaml:"dir"`
	TTL       time.Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr string        `toml:"redis_addr" yaml:"redis_addr"`
	Disabled  bool          `toml:"disabled" yaml:"disabled"`
}

// Colors overrides the default palettes per output family.
type Colors struct {
	DGML     render.Palette `toml:"dgml" yaml:"dgml"`
	Graphviz render.Palette `toml:"graphviz" yaml:"graphviz"`
}

// Palette returns the overrides that apply to an output format.
func (c Colors) Palette(format string) render.Palette {
	if name, _ := render.Canonical(format); name == render.FormatDGML {
		return c.DGML
	}
	return c.Graphviz
}

// Load parses the file at path. The format is chosen by extension: .toml,
// .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	cfg := &Config{Path: path}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Output.Type != "" {
		if _, ok := render.Canonical(c.Output.Type); !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown output type %q", c.Path, c.Output.Type)
		}
	}
	if c.Feed.URL != "" {
		if err := errors.ValidateURL(c.Feed.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s: feed url", c.Path)
		}
	}
	if c.Feed.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "config %s: feed concurrency must not be negative", c.Path)
	}
	return nil
}

// Find returns the config file to load. An explicit path must exist.
// Otherwise ./nugetviz.toml and then <user config dir>/nugetviz/config.toml
// are tried; an empty result means no file was found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", explicit)
		}
		return explicit, nil
	}

	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "nugetviz", "config.toml"))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}

// Discover combines [Find] and [Load]. It returns an empty Config when no
// file is found.
func Discover(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &Config{}, nil
	}
	return Load(path)
}
