package options

import (
	"errors"
	"fmt"
	"os"
)

// ConfigLoadError is returned when a deck config is missing, unreadable or
// carries a field of the wrong type or shape.
type ConfigLoadError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigLoadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unable to load deck options from %q: %s", e.Path, e.Err)
	}

	return fmt.Sprintf(
		"unable to load deck options from %q: field %q: %s",
		e.Path,
		e.Field,
		e.Err,
	)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means that no config file exists, which
// callers usually treat as "use Default()".
func IsNotFound(err error) bool {
	var loadErr *ConfigLoadError
	if !errors.As(err, &loadErr) {
		return false
	}

	return errors.Is(loadErr.Err, os.ErrNotExist)
}
