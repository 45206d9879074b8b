package history

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Config configures a History.
type Config[S any] struct {
	// Init lists the action types that establish the replay baseline.
	// nil selects the default, []Type{HostInit}; an empty non-nil slice
	// disables initialization.
	Init []Type

	// Include lists the action types recorded into the past.
	// Nothing is recorded by default.
	Include []Type

	// Equal reports whether a reducer result is unchanged from the present
	// state. Defaults to Identical.
	Equal func(a, b S) bool

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// ConfigError describes one invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// settings is the merged configuration captured by a History. It is never
// modified after New returns.
type settings[S any] struct {
	init    map[Type]struct{}
	include map[Type]struct{}
	equal   func(a, b S) bool
	logger  *slog.Logger
}

// merge applies defaults over cfg and validates the result.
// All problems are reported, joined, rather than the first one.
func merge[S any](cfg Config[S]) (settings[S], error) {
	var errs []error

	initTypes := cfg.Init
	if initTypes == nil {
		initTypes = []Type{HostInit}
	}

	s := settings[S]{
		init:    toSet(initTypes),
		include: toSet(cfg.Include),
		equal:   cfg.Equal,
		logger:  cfg.Logger,
	}
	if s.equal == nil {
		s.equal = Identical[S]
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for i, t := range initTypes {
		if reserved(t) {
			errs = append(errs, &ConfigError{
				Field:   fmt.Sprintf("init[%d]", i),
				Message: fmt.Sprintf("reserved action type %q cannot trigger initialization", t),
			})
		}
	}
	for i, t := range cfg.Include {
		if reserved(t) {
			errs = append(errs, &ConfigError{
				Field:   fmt.Sprintf("include[%d]", i),
				Message: fmt.Sprintf("reserved action type %q cannot be recorded", t),
			})
		}
	}

	return s, errors.Join(errs...)
}

func toSet(types []Type) map[Type]struct{} {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}
