package display

import "codeberg.org/mutker/scopectl/internal/errors"

const (
	ErrListenFailed   = errors.ErrorCode("display_listen_failed")
	ErrShutdownFailed = errors.ErrorCode("display_shutdown_failed")
)
