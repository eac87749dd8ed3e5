package cas

import "errors"

var (
	ErrNotFound    = errors.New("cas: not found")
	ErrInvalidCid  = errors.New("cas: invalid cid")
	ErrCidMismatch = errors.New("cas: cid mismatch")
	ErrNetwork     = errors.New("cas: network failure")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
