package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/expr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Language    string `yaml:"language"`
	LogLevel    string `yaml:"log_level"`
	Development bool   `yaml:"development"`
	// Sheets are YAML sheet data files. Relative paths are relative to the config file
	Sheets   []string `yaml:"sheets"`
	Parallel int      `yaml:"parallel"`
	// GlobalParameters by 1-based index. Values are numbers or text
	GlobalParameters map[uint32]any `yaml:"global_parameters"`
}

var ErrInvalidConfig = errors.New("invalid config")

func Default() *Config {
	return &Config{
		Language: sestring.English.String(),
		LogLevel: "info",
		Parallel: runtime.NumCPU(),
	}
}

// Load reads config file. Missing fields take default values
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ret, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, s := range ret.Sheets {
		if !filepath.IsAbs(s) {
			ret.Sheets[i] = filepath.Join(dir, s)
		}
	}
	return ret, nil
}

func Read(r io.Reader) (*Config, error) {
	ret := Default()
	if err := yaml.NewDecoder(r).Decode(ret); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Config) Validate() error {
	if _, err := sestring.ParseLanguage(c.Language); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Parallel <= 0 {
		return fmt.Errorf("%w: parallel must be positive, got %d", ErrInvalidConfig, c.Parallel)
	}
	if _, err := c.Globals(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Lang() sestring.Language {
	ret, err := sestring.ParseLanguage(c.Language)
	if err != nil {
		return sestring.English
	}
	return ret
}

// Globals converts global parameters to values usable in a resolve context
func (c *Config) Globals() (sestring.StaticGlobals, error) {
	ret := make(sestring.StaticGlobals, len(c.GlobalParameters))
	for idx, v := range c.GlobalParameters {
		if idx == 0 {
			return nil, fmt.Errorf("%w: global parameter index starts at 1", ErrInvalidConfig)
		}
		switch v := v.(type) {
		case int:
			if v < 0 || int64(v) > 0xFFFFFFFF {
				return nil, fmt.Errorf("%w: global parameter %d: %d out of range", ErrInvalidConfig, idx, v)
			}
			ret[idx] = expr.Number(uint32(v))
		case string:
			ret[idx] = expr.Text(v)
		case bool:
			n := uint32(0)
			if v {
				n = 1
			}
			ret[idx] = expr.Number(n)
		default:
			return nil, fmt.Errorf("%w: global parameter %d: unsupported value %v", ErrInvalidConfig, idx, v)
		}
	}
	return ret, nil
}
