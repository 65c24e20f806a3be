package pointgraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/probe"
)

var (
	// ErrSetup is returned when a unit cannot start because of bad settings.
	// Nothing is written for that unit.
	ErrSetup = errors.New("setup failed")

	// ErrEmptyInput is returned for fewer than two points or when no point is
	// eligible to generate or accept connections.
	ErrEmptyInput = errors.New("empty input")

	// ErrDegenerateGraph is returned when a graph compiles to zero edges.
	ErrDegenerateGraph = graph.ErrDegenerateGraph

	// ErrInvalidTolerance is returned for a negative coincidence tolerance.
	ErrInvalidTolerance = errors.New("invalid coincidence tolerance")
)

// SetupError describes a setup failure of one unit of work.
type SetupError struct {
	Unit   string
	Reason string
	cause  error
}

func (e *SetupError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: setup failed: %s: %v", e.Unit, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: setup failed: %s", e.Unit, e.Reason)
}

// Unwrap matches both ErrSetup and the underlying cause.
func (e *SetupError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrSetup}
	}
	return []error{ErrSetup, e.cause}
}

// MissingAttributeError is a setup failure caused by a required attribute
// that does not exist on the input.
type MissingAttributeError struct {
	Unit  string
	Name  string
	cause error
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: missing attribute %q", e.Unit, e.Name)
}

// Unwrap matches ErrSetup and data.ErrMissingAttribute.
func (e *MissingAttributeError) Unwrap() []error {
	return []error{ErrSetup, e.cause}
}

// classify converts errors from the building blocks into the public error
// set. Context errors and already classified errors pass through.
func classify(unit string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSetup) {
		return err
	}

	var missing *data.MissingAttributeError
	if errors.As(err, &missing) {
		return &MissingAttributeError{Unit: unit, Name: missing.Name, cause: err}
	}

	switch {
	case errors.Is(err, probe.ErrInvalidProbe),
		errors.Is(err, probe.ErrNoProbes),
		errors.Is(err, data.ErrTypeMismatch),
		errors.Is(err, blend.ErrUnknownOperator),
		errors.Is(err, ErrInvalidTolerance):
		return &SetupError{Unit: unit, Reason: "invalid configuration", cause: err}
	}

	return err
}
