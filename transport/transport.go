// Package transport delivers opaque ESC/POS byte payloads to receipt printers
// over one of four transports: a TCP socket, a serial port, the OS print
// spooler, or a raw USB endpoint. Each send opens its own OS resource, writes
// the whole payload and releases the resource before returning, on success and
// on every error path alike. Payloads are never inspected or transformed.
package transport

import "fmt"

// Target identifies where a print job is delivered. It is a closed set:
// TCP, Serial, Spooler and USB are the only implementations.
type Target interface {
	fmt.Stringer

	target()
}

// TCP addresses a network printer (or print server) by host and port.
type TCP struct {
	Host string
	Port uint16
}

func (t TCP) target() {}

func (t TCP) String() string {
	return fmt.Sprintf("tcp://%s:%d", t.Host, t.Port)
}

// Serial addresses a serial-attached printer by device name and baud rate.
type Serial struct {
	Device string
	Baud   int
}

func (t Serial) target() {}

func (t Serial) String() string {
	return fmt.Sprintf("serial://%s@%d", t.Device, t.Baud)
}

// Spooler addresses an OS-registered printer queue by name. The name is only
// validated by the OS at open time.
type Spooler struct {
	Printer string
}

func (t Spooler) target() {}

func (t Spooler) String() string {
	return fmt.Sprintf("spooler://%s", t.Printer)
}

// USB addresses a USB printer by vendor and product id. Both zero means
// auto-detect the first printer-class device on the bus.
type USB struct {
	VendorID  uint16
	ProductID uint16
}

func (t USB) target() {}

func (t USB) String() string {
	if t.VendorID == 0 && t.ProductID == 0 {
		return "usb://auto"
	}
	return fmt.Sprintf("usb://%04x:%04x", t.VendorID, t.ProductID)
}

// Send delivers data to the given target using the matching transport.
func Send(target Target, data []byte) error {
	switch t := target.(type) {
	case TCP:
		return SendTCP(t.Host, t.Port, data)
	case Serial:
		return SendSerial(t.Device, t.Baud, data)
	case Spooler:
		return SendSpooler(t.Printer, data)
	case USB:
		return SendUSB(t.VendorID, t.ProductID, data)
	default:
		return &Error{
			Kind: KindValidation,
			Msg:  fmt.Sprintf("unknown transport target %T", target),
		}
	}
}
