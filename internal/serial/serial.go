// Package serial provides the sample source: a byte-producing handle on the
// acquisition board's serial link. Reads are best-effort and non-blocking;
// an empty read is the normal idle outcome, not an error.
package serial

import (
	"io"
	"time"

	"codeberg.org/mutker/scopectl/internal/errors"
	"codeberg.org/mutker/scopectl/internal/logger"
	tarm "github.com/tarm/serial"
)

const (
	// Short enough that an idle poll never eats into the cycle cadence.
	defaultReadTimeout = time.Millisecond

	readBufferSize = 4096
)

// Source is the byte-producing side of the acquisition device. ReadAvailable
// returns whatever bytes are pending right now; a zero-length result is
// valid and frequent.
type Source interface {
	ReadAvailable() ([]byte, error)
	Close() error
}

// Config holds serial link parameters.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// Port is a Source over a physical serial port.
type Port struct {
	port *tarm.Port
	buf  []byte
}

// Open opens the serial device. Failure here is the application's only
// fatal error class; the caller reports it and exits.
func Open(cfg Config) (*Port, error) {
	errFactory := errors.New()

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}

	port, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenFailed, err)
	}

	logger.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("Sample source opened")

	return &Port{
		port: port,
		buf:  make([]byte, readBufferSize),
	}, nil
}

// ReadAvailable returns the bytes pending on the port, up to one buffer's
// worth. A read timeout means no data and maps to an empty result. The
// returned slice is only valid until the next call.
func (p *Port) ReadAvailable() ([]byte, error) {
	n, err := p.port.Read(p.buf)
	if n > 0 {
		return p.buf[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		// Timed out with nothing pending
		return nil, nil
	}
	return nil, errors.New().Wrap(ErrReadFailed, err)
}

// Close releases the serial port.
func (p *Port) Close() error {
	if err := p.port.Close(); err != nil {
		return errors.New().Wrap(ErrCloseFailed, err)
	}
	return nil
}
