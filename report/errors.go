package report

import "errors"

var (
	// ErrIO is returned when the report cannot be created, written or flushed.
	ErrIO = errors.New("report: i/o failure")

	// ErrSession is returned by Write for a session that was not set up or
	// has already produced points.
	ErrSession = errors.New("report: session is not set up and unstarted")

	// ErrFormat is returned by Parse for input that is not a tiling report.
	ErrFormat = errors.New("report: malformed tiling report")
)
