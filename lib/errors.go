package lib

import "errors"

var (
	// ErrBadHeader indicates a missing, repeated or malformed problem line.
	ErrBadHeader = errors.New("lib: bad or missing header line")
	// ErrBadLine indicates a line that matches no known record type.
	ErrBadLine = errors.New("lib: cannot parse line")
	// ErrEdgeCount indicates the number of edges read disagrees with the header.
	ErrEdgeCount = errors.New("lib: unexpected number of edges")
	// ErrVertexRange indicates a vertex index outside the declared size.
	ErrVertexRange = errors.New("lib: vertex index out of bounds")
	// ErrLoop indicates a self-edge in a format that forbids them.
	ErrLoop = errors.New("lib: unexpected loop")
	// ErrDuplicateEdge indicates a directed edge declared twice.
	ErrDuplicateEdge = errors.New("lib: duplicate directed edge")
	// ErrTruncated indicates a binary file ended before its declared contents.
	ErrTruncated = errors.New("lib: unexpected end of file")
	// ErrTrailingData indicates text remaining after the declared contents.
	ErrTrailingData = errors.New("lib: trailing data after graph")
	// ErrUnknownFormat indicates an unrecognised graph file format.
	ErrUnknownFormat = errors.New("lib: unknown graph format")
)
