// Package acquire turns raw bytes from the sample source into calibrated
// voltage samples: a line decoder that validates newline-delimited ASCII
// ADC codes, and a calibrator that maps codes to voltages.
package acquire

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"codeberg.org/mutker/scopectl/internal/errors"
)

// Decoder parses newline-delimited ASCII integers out of raw byte chunks.
// Decode failures are reported per line and never stop processing.
type Decoder struct {
	errFactory errors.Factory
}

func NewDecoder() *Decoder {
	return &Decoder{
		errFactory: errors.New(),
	}
}

// Decode splits a chunk into complete lines and parses each as an ADC code.
// The chunk must be valid UTF-8 text; otherwise the whole chunk is discarded
// and a single decode event is reported.
//
// Only the lines terminated by a newline inside this chunk are considered:
// whatever follows the last newline is dropped, not buffered for the next
// read. That matches the acquisition board's observed framing, where a cycle
// drains whole reports at once, but it does drop a sample when a read lands
// mid-line.
//
// Returned events are diagnostic only; the caller logs and continues.
func (d *Decoder) Decode(chunk []byte) ([]int, []errors.Error) {
	if len(chunk) == 0 {
		return nil, nil
	}

	if !utf8.Valid(chunk) {
		return nil, []errors.Error{d.errFactory.WithData(ErrChunkNotText, len(chunk))}
	}

	lines := strings.Split(string(chunk), "\n")
	lines = lines[:len(lines)-1] // discard the incomplete final line

	var (
		codes  []int
		events []errors.Error
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		code, err := strconv.Atoi(trimmed)
		if err != nil {
			events = append(events, d.errFactory.WithData(ErrLineNotInteger, trimmed))
			continue
		}
		codes = append(codes, code)
	}

	return codes, events
}
