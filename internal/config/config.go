package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/Zarux/tictactoe/pkg/player"
	"github.com/Zarux/tictactoe/pkg/tictactoe"
)

const (
	ModeTUI  = "tui"
	ModeText = "text"
)

type Config struct {
	Name       string            `mapstructure:"name"`
	Mark       tictactoe.Mark    `mapstructure:"mark"`
	Difficulty player.Difficulty `mapstructure:"difficulty"`
	// Seed of 0 picks a random seed at start-up.
	Seed     uint64 `mapstructure:"seed"`
	Mode     string `mapstructure:"mode"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"name":       "Player",
		"mark":       "X",
		"difficulty": "easy",
		"seed":       0,
		"mode":       ModeTUI,
		"log_file":   "tictactoe.log",
		"log_level":  "info",
	}
}

// Load reads path, if it exists, over the defaults and applies overrides
// last. Override values may be strings; they are converted like file values.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	raw := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			var file map[string]interface{}
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			for k, v := range file {
				raw[k] = v
			}
		}
	}

	for k, v := range overrides {
		raw[k] = v
	}

	return Decode(raw)
}

func Decode(raw map[string]interface{}) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			markHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mark != tictactoe.X && c.Mark != tictactoe.O {
		return fmt.Errorf("mark must be X or O")
	}

	if !slices.Contains(player.Difficulties, c.Difficulty) {
		return fmt.Errorf("%w: %s", player.ErrUnknownDifficulty, c.Difficulty)
	}

	if c.Mode != ModeTUI && c.Mode != ModeText {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeTUI, ModeText, c.Mode)
	}

	return nil
}

var markType = reflect.TypeOf(tictactoe.Empty)

func markHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != markType || from.Kind() != reflect.String {
		return data, nil
	}

	return tictactoe.ParseMark(data.(string))
}
