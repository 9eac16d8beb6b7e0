package view

import "errors"

var (
	ErrUnknownRegion = errors.New("unknown region")
	ErrNotFound      = errors.New("view not found")
)
