package health

import "context"

// DBPinger checks artifact/cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EngineChecker reports whether the recommender has completed fitting.
type EngineChecker interface {
	Fitted() bool
}
