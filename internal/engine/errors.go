package engine

import "errors"

var (
	// ErrReportNotFound means the static engine has no report for the request.
	ErrReportNotFound = errors.New("report not found")
	// ErrEmptyReport means the engine answered but returned no report text.
	ErrEmptyReport = errors.New("engine returned an empty report")
)
