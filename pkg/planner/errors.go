package planner

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// NoCompatibleModeError is returned when no mode fits the host. Reasons has
// one entry per rejected mode, in manifest iteration order.
type NoCompatibleModeError struct {
	Environment types.Environment
	Reasons     []string
}

func (e *NoCompatibleModeError) Error() string {
	env := e.Environment
	return fmt.Sprintf("no compatible mode found for %s %s (%s, %d GiB RAM): %s",
		env.OS, env.OSVersion, env.CPUArch, env.RAMGB, strings.Join(e.Reasons, "; "))
}

// Unwrap exposes the error code so errors.IsErrorCode works on it
func (e *NoCompatibleModeError) Unwrap() error {
	return errors.New(errors.ErrNoCompatibleMode, "no compatible mode").
		WithDetail("reasons", e.Reasons).
		WithDetail("environment", e.Environment)
}
