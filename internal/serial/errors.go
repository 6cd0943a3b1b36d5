package serial

import "codeberg.org/mutker/scopectl/internal/errors"

const (
	ErrOpenFailed  = errors.ErrorCode("serial_open_failed")
	ErrReadFailed  = errors.ErrorCode("serial_read_failed")
	ErrCloseFailed = errors.ErrorCode("serial_close_failed")
)
