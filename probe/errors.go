package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProbe is returned by PrepareForPoints for malformed settings.
	ErrInvalidProbe = errors.New("probe: invalid settings")

	// ErrNoProbes is returned by NewSet when no probe is given.
	ErrNoProbes = errors.New("probe: no probes")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidProbe}, args...)...)
}
