package graph

import "errors"

// ErrDegenerateGraph is returned by Compile when no edge survives.
var ErrDegenerateGraph = errors.New("graph: no edges")
