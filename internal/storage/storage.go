package storage

import "errors"

var (
	ErrTxNotFound = errors.New("transaction not found")
)
