// Package engine provides assumption test engines: an in-process one built on
// gonum distributions and an HTTP client for a remote statistics service.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"stataid/ports"
)

// Engine modes
const (
	ModeNone  = "none"
	ModeLocal = "local"
	ModeHTTP  = "http"
)

// Config selects and configures an engine
type Config struct {
	Mode    string
	BaseURL string
	Timeout time.Duration
}

// New builds the engine for config.Mode. ModeNone (and an empty mode) yields a
// nil engine, which the validator treats as "tests not run"; the local engine is opt-in.
func New(config Config, logger *zap.Logger) (ports.AssumptionTestEngine, error) {
	switch config.Mode {
	case ModeNone, "":
		return nil, nil
	case ModeLocal:
		return NewLocalEngine(), nil
	case ModeHTTP:
		if config.BaseURL == "" {
			return nil, fmt.Errorf("engine: http mode needs a base URL")
		}
		return NewHTTPEngine(config, logger), nil
	default:
		return nil, fmt.Errorf("engine: unknown mode %q", config.Mode)
	}
}
