package state

import (
	"context"
	"log/slog"
)

// Env carries the per-invocation environment. It is created once by the
// entrypoint and only read afterwards.
type Env struct {
	Cfg
	Context context.Context
	Cancel  context.CancelCauseFunc
	Log     *slog.Logger
}
