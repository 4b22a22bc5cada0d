package transport

import "fmt"

// spoolerDevice is one open handle to a native spooler printer queue. The
// windows build implements it over winspool.drv; tests substitute a fake.
type spoolerDevice interface {
	StartDoc(docName, datatype string) error
	StartPage() error
	Write(data []byte) (int, error)
	EndPage() error
	EndDoc() error
	Close() error
}

// runSpoolerJob drives one raw print job through an already-open device.
// The handle is released on every path, error paths included; page and
// document are ended whatever the write outcome; success requires the
// reported byte count to equal the payload length exactly.
func runSpoolerJob(dev spoolerDevice, printer string, data []byte) error {
	defer dev.Close()

	if err := dev.StartDoc(spoolerDocName, spoolerDataType); err != nil {
		return &Error{
			Kind: KindJobStart,
			Msg:  fmt.Sprintf("unable to start print job on %q", printer),
			Err:  err,
		}
	}

	if err := dev.StartPage(); err != nil {
		dev.EndDoc()
		return &Error{
			Kind: KindPageStart,
			Msg:  fmt.Sprintf("unable to start page on %q", printer),
			Err:  err,
		}
	}

	written, writeErr := dev.Write(data)

	// Page and document are always ended, whatever the write outcome.
	pageErr := dev.EndPage()
	docErr := dev.EndDoc()

	if writeErr != nil || written != len(data) {
		return &Error{
			Kind: KindWrite,
			Msg: fmt.Sprintf("printer write failed on %q (wrote %d/%d bytes)",
				printer, written, len(data)),
			Err: writeErr,
		}
	}
	if pageErr != nil || docErr != nil {
		return &Error{
			Kind: KindFlush,
			Msg:  fmt.Sprintf("unable to finalize print job on %q", printer),
		}
	}

	return nil
}
