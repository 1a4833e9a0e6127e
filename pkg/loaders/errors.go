package loaders

import (
	"errors"
	"fmt"
)

// Sentinel errors for problem documents that cannot be turned into a problem
var (
	ErrUnknownReference       = errors.New("unknown reference")
	ErrUnresolvedDistribution = errors.New("distributions could not be resolved")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrDuplicateName          = errors.New("duplicate name")
	ErrInvalidProblem         = errors.New("invalid problem")
)

// ConfigError locates a problem document error by section and entry name
type ConfigError struct {
	Section string
	Name    string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Section, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(section, name string, err error) error {
	return &ConfigError{Section: section, Name: name, Err: err}
}

func configErrf(section, name string, sentinel error, format string, args ...any) error {
	return &ConfigError{
		Section: section,
		Name:    name,
		Err:     fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}
