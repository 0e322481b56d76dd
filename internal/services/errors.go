package services

import "errors"

// Attendance service errors
var (
	ErrNoDataLoaded     = errors.New("no attendance data loaded")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidGrouping  = errors.New("invalid grouping")
)
