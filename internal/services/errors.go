package services

import "errors"

// Service errors
var (
	ErrNoDataset          = errors.New("no dataset loaded")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
