//go:build windows

package transport

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	winspool = windows.NewLazySystemDLL("winspool.drv")

	procEnumPrintersW    = winspool.NewProc("EnumPrintersW")
	procOpenPrinterW     = winspool.NewProc("OpenPrinterW")
	procClosePrinter     = winspool.NewProc("ClosePrinter")
	procStartDocPrinterW = winspool.NewProc("StartDocPrinterW")
	procEndDocPrinter    = winspool.NewProc("EndDocPrinter")
	procStartPagePrinter = winspool.NewProc("StartPagePrinter")
	procEndPagePrinter   = winspool.NewProc("EndPagePrinter")
	procWritePrinter     = winspool.NewProc("WritePrinter")
)

// Local queues plus per-user printer connections; remote-browsed printers are
// deliberately excluded.
const (
	printerEnumLocal       = 0x00000002
	printerEnumConnections = 0x00000004
)

// docInfo1 mirrors DOC_INFO_1W.
type docInfo1 struct {
	docName    *uint16
	outputFile *uint16
	datatype   *uint16
}

// printerInfo4 mirrors PRINTER_INFO_4W, the cheapest enumeration level that
// still carries the display name.
type printerInfo4 struct {
	printerName *uint16
	serverName  *uint16
	attributes  uint32
}

// win32Err filters the "operation completed successfully" errno the lazy-proc
// Call convention always returns.
func win32Err(e error) error {
	if errno, ok := e.(syscall.Errno); ok && errno == 0 {
		return nil
	}
	return e
}

// procFailed reports a failed proc call, falling back to a named error when
// the errno carries no information.
func procFailed(callErr error, fallback string) error {
	if err := win32Err(callErr); err != nil {
		return err
	}
	return errors.New(fallback)
}

func listSpoolerPrinters() ([]string, error) {
	flags := uintptr(printerEnumLocal | printerEnumConnections)

	// Two-call probe: first call reports the buffer size, second fills it.
	var needed, returned uint32
	_, _, _ = procEnumPrintersW.Call(flags, 0, 4, 0, 0,
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if needed == 0 {
		return []string{}, nil
	}

	buf := make([]byte, needed)
	ok, _, err := procEnumPrintersW.Call(flags, 0, 4,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(needed),
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if ok == 0 {
		return nil, &Error{
			Kind: KindEnumeration,
			Msg:  "unable to enumerate spooler printers",
			Err:  win32Err(err),
		}
	}
	if returned == 0 {
		return []string{}, nil
	}

	infos := unsafe.Slice((*printerInfo4)(unsafe.Pointer(&buf[0])), returned)
	names := make([]string, 0, returned)
	for _, info := range infos {
		names = append(names, windows.UTF16PtrToString(info.printerName))
	}
	return normalizePrinterNames(names), nil
}

func sendSpooler(printer string, data []byte) error {
	dev, err := openSpoolerDevice(printer)
	if err != nil {
		return err
	}
	return runSpoolerJob(dev, printer, data)
}

// openSpoolerDevice opens a winspool handle to the named printer queue.
func openSpoolerDevice(printer string) (spoolerDevice, error) {
	printerName, err := windows.UTF16PtrFromString(printer)
	if err != nil {
		return nil, &Error{
			Kind: KindValidation,
			Msg:  fmt.Sprintf("invalid printer name %q", printer),
			Err:  err,
		}
	}

	var handle windows.Handle
	ok, _, callErr := procOpenPrinterW.Call(
		uintptr(unsafe.Pointer(printerName)),
		uintptr(unsafe.Pointer(&handle)), 0)
	if ok == 0 || handle == 0 {
		return nil, &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to open printer %q", printer),
			Err:  win32Err(callErr),
		}
	}

	return &winspoolDevice{handle: handle}, nil
}

// winspoolDevice implements spoolerDevice over one open winspool handle.
type winspoolDevice struct {
	handle windows.Handle
}

func (d *winspoolDevice) StartDoc(docName, datatype string) error {
	nameW, _ := windows.UTF16PtrFromString(docName)
	typeW, _ := windows.UTF16PtrFromString(datatype)
	doc := docInfo1{docName: nameW, datatype: typeW}

	jobID, _, callErr := procStartDocPrinterW.Call(uintptr(d.handle), 1,
		uintptr(unsafe.Pointer(&doc)))
	if jobID == 0 {
		return procFailed(callErr, "StartDocPrinter failed")
	}
	return nil
}

func (d *winspoolDevice) StartPage() error {
	ok, _, callErr := procStartPagePrinter.Call(uintptr(d.handle))
	if ok == 0 {
		return procFailed(callErr, "StartPagePrinter failed")
	}
	return nil
}

func (d *winspoolDevice) Write(data []byte) (int, error) {
	var buf unsafe.Pointer
	if len(data) > 0 {
		buf = unsafe.Pointer(&data[0])
	}

	var written uint32
	ok, _, callErr := procWritePrinter.Call(uintptr(d.handle),
		uintptr(buf), uintptr(len(data)), uintptr(unsafe.Pointer(&written)))
	if ok == 0 {
		return int(written), procFailed(callErr, "WritePrinter failed")
	}
	return int(written), nil
}

func (d *winspoolDevice) EndPage() error {
	ok, _, callErr := procEndPagePrinter.Call(uintptr(d.handle))
	if ok == 0 {
		return procFailed(callErr, "EndPagePrinter failed")
	}
	return nil
}

func (d *winspoolDevice) EndDoc() error {
	ok, _, callErr := procEndDocPrinter.Call(uintptr(d.handle))
	if ok == 0 {
		return procFailed(callErr, "EndDocPrinter failed")
	}
	return nil
}

func (d *winspoolDevice) Close() error {
	ok, _, callErr := procClosePrinter.Call(uintptr(d.handle))
	if ok == 0 {
		return procFailed(callErr, "ClosePrinter failed")
	}
	return nil
}
