package domain

import "errors"

var (
	// ErrMissingInput means a required input table was not supplied. The
	// wrapped message names the table.
	ErrMissingInput = errors.New("required input is missing")

	// ErrMissingColumn means a supplied table lacks an expected column after
	// header normalization. The wrapped message names the table and column.
	ErrMissingColumn = errors.New("required column is missing")
)
