package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound           = errors.New("competitor not found")
	ErrUnknownCompetition = errors.New("unknown competition")
)
