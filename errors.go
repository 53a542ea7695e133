package vg

import "errors"

// Sentinel errors for the vg package.
var (
	// ErrInvalidSegmentQuery is returned when a point or tangent is
	// requested on a segment that has no sampleable geometry, such as a
	// move or close segment.
	ErrInvalidSegmentQuery = errors.New("vg: point/tangent query on move or close segment")

	// ErrNonPositiveResolution is returned when a flattening or
	// triangulation resolution is zero or negative.
	ErrNonPositiveResolution = errors.New("vg: resolution must be positive")

	// ErrEmptyPath is returned when a sampling operation is performed on a
	// path with no measurable geometry.
	ErrEmptyPath = errors.New("vg: path has no measurable geometry")

	// ErrPathTopology is returned when triangulation encounters an edge
	// ordering contradiction during the sweep. This indicates malformed
	// input topology (for example self-intersecting figures); per-figure
	// boundaries must be simple polygons.
	ErrPathTopology = errors.New("vg: inconsistent path topology")
)
