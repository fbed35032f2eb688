package domain

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrUnknownValidator         = errors.New("unknown validator")
	ErrInvalidFilterCombination = errors.New("invalid filter combination")
	ErrInvalidFilter            = errors.New("invalid filter")
	ErrInvalidStatsPatch        = errors.New("invalid stats patch")
)
