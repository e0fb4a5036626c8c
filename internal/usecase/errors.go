package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSelectionBounds  = errors.New("skill selection out of bounds")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrReloadInProgress = errors.New("catalog reload already in progress")
	ErrUnavailable      = errors.New("service unavailable")
	ErrInternal         = errors.New("internal error")
)
