package core

import (
	"context"
	"log/slog"
	"os"
	"path"

	"github.com/encodeous/tint"
	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
	slogmulti "github.com/samber/slog-multi"
)

func readConfig(cfgPath string) (*state.Cfg, error) {
	var cfg state.Cfg
	file, err := os.ReadFile(cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// no config file, run on defaults
	} else {
		err = yaml.Unmarshal(file, &cfg)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Bootstrap builds the environment for one invocation: config, logging and
// a cancellable context. overrides is applied after the config file is
// read, so command-line flags win over file values.
func Bootstrap(cfgPath string, verbose bool, overrides func(cfg *state.Cfg)) (*state.Env, error) {
	cfg, err := readConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides(cfg)
	}
	err = state.ConfigValidator(cfg)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: "weft",
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	ctx, cancel := context.WithCancelCause(context.Background())

	return &state.Env{
		Cfg:     *cfg,
		Context: ctx,
		Cancel:  cancel,
		Log:     slog.New(slogmulti.Fanout(handlers...)),
	}, nil
}
