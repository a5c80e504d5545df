package mock

import (
	"context"
	"log/slog"

	"github.com/encodeous/weft/state"
)

// Env returns a default environment with a discarding logger, for tests.
func Env() *state.Env {
	cfg := state.Cfg{}
	cfg.ApplyDefaults()
	ctx, cancel := context.WithCancelCause(context.Background())
	return &state.Env{
		Cfg:     cfg,
		Context: ctx,
		Cancel:  cancel,
		Log:     slog.New(slog.DiscardHandler),
	}
}
