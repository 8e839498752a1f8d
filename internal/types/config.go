package types

import (
	"fmt"

	"github.com/samber/lo"
)

type RunMode string

const (
	// ModeLocal runs the API against a local database
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
)

func (m RunMode) Validate() error {
	if !lo.Contains([]RunMode{ModeLocal, ModeAPI}, m) {
		return fmt.Errorf("invalid run mode: %s", m)
	}
	return nil
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
