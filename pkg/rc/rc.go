// Package rc loads the rc file, which sets up every new JavaScript context
// created by the tomato command.
//
// The rc file is written in YAML:
//
//	globals:
//	  greeting: hello
//	preload:
//	  - lib.js
//	debug: stderr
package rc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
	"src.tomato.sh/pkg/env"
	"src.tomato.sh/pkg/errutil"
	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[rc] ")

// Config is the content of an rc file.
type Config struct {
	// Globals are bound into the context, in the order of their names.
	Globals map[string]any `yaml:"globals"`
	// Preload lists JavaScript files evaluated in order after binding the
	// globals. Relative paths are resolved against the directory of the rc
	// file.
	Preload []string `yaml:"preload"`
	// Debug is where the debug function writes: "stdout" (the default),
	// "stderr" or "discard".
	Debug string `yaml:"debug"`

	dir string
}

// Load reads and parses an rc file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	switch cfg.Debug {
	case "", "stdout", "stderr", "discard":
	default:
		return nil, fmt.Errorf("parse %s: invalid debug output %q", path, cfg.Debug)
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// LoadIfExists is like Load, but returns nil and no error if the file
// doesn't exist.
func LoadIfExists(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Println("no rc file at", path)
		return nil, nil
	}
	return cfg, err
}

// Apply sets up a context according to the Config. It binds all the globals
// and evaluates all the preload files even if some of them fail, and returns
// all the errors combined.
func (cfg *Config) Apply(c *js.Context, stdout, stderr io.Writer) error {
	switch cfg.Debug {
	case "", "stdout":
		c.SetDebugOutput(stdout)
	case "stderr":
		c.SetDebugOutput(stderr)
	case "discard":
		c.SetDebugOutput(io.Discard)
	}

	var errs []error
	names := make([]string, 0, len(cfg.Globals))
	for name := range cfg.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, c.Bind(name, cfg.Globals[name]))
	}

	for _, file := range cfg.Preload {
		if !filepath.IsAbs(file) {
			file = filepath.Join(cfg.dir, file)
		}
		errs = append(errs, preload(c, file))
	}
	return errutil.Multi(errs...)
}

func preload(c *js.Context, file string) error {
	code, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	logger.Println("preloading", file)
	_, err = c.Eval(js.Source{Name: file, Code: string(code)}, js.EvalCfg{})
	return err
}

// DefaultPath returns the default path of the rc file, in the XDG config
// directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv(env.XDG_CONFIG_HOME); dir != "" {
		return filepath.Join(dir, "tomato", "rc.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine rc path: %w", err)
	}
	return filepath.Join(home, ".config", "tomato", "rc.yaml"), nil
}
