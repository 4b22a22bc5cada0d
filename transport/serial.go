package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Serial-attached receipt printers often have tiny input buffers and no flow
// control; an unbounded burst silently drops or garbles bytes. Writing in
// fixed chunks with a pause between them is a hardware-compatibility contract,
// not a tuning knob.
const (
	serialChunkSize  = 512
	serialChunkPause = 20 * time.Millisecond
	serialTimeout    = 3 * time.Second
)

// serialPort is the subset of go.bug.st/serial.Port this package uses.
// Narrowing the interface keeps the transport testable without hardware.
type serialPort interface {
	io.WriteCloser
	Drain() error
	SetReadTimeout(d time.Duration) error
}

// openSerialPort is swapped out in tests.
var openSerialPort = func(device string, baud int) (serialPort, error) {
	return serial.Open(device, &serial.Mode{BaudRate: baud})
}

// SendSerial opens the named device at the given baud rate, writes data in
// paced chunks, drains the output buffer and closes the port. Any failure
// aborts the whole job; there is no partial success and no retry.
func SendSerial(device string, baud int, data []byte) error {
	if baud <= 0 {
		return &Error{
			Kind: KindValidation,
			Msg:  fmt.Sprintf("invalid baud rate %d for serial port %s", baud, device),
		}
	}

	port, err := openSerialPort(device, baud)
	if err != nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to open serial port %s", device),
			Err:  err,
		}
	}
	defer port.Close()

	if err := port.SetReadTimeout(serialTimeout); err != nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to configure serial port %s", device),
			Err:  err,
		}
	}

	for offset := 0; offset < len(data); offset += serialChunkSize {
		if offset > 0 {
			time.Sleep(serialChunkPause)
		}

		end := offset + serialChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]

		n, err := port.Write(chunk)
		if err == nil && n != len(chunk) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return &Error{
				Kind: KindWrite,
				Msg:  fmt.Sprintf("serial write failed (%s)", device),
				Err:  err,
			}
		}
	}

	if err := port.Drain(); err != nil {
		return &Error{
			Kind: KindFlush,
			Msg:  fmt.Sprintf("serial flush failed (%s)", device),
			Err:  err,
		}
	}

	return nil
}
