package acquire

import "codeberg.org/mutker/scopectl/internal/errors"

const (
	// Decode Errors
	ErrChunkNotText   = errors.ErrorCode("acquire_chunk_not_text")
	ErrLineNotInteger = errors.ErrorCode("acquire_line_not_integer")
)
