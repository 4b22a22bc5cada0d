package transport

import (
	"sort"
	"strings"
)

// Every spooler job is tagged with the same document name and the RAW
// datatype, which tells the spooler to hand the bytes to the driver unmodified
// instead of interpreting them as a document format.
const (
	spoolerDocName  = "ESC/POS Receipt"
	spoolerDataType = "RAW"
)

// ListPrinters enumerates the local and connected printer queues registered
// with the OS spooler, sorted ascending with blanks and duplicates removed.
// On platforms without a native spooler the list is empty, which is a valid
// result and not an error.
func ListPrinters() ([]string, error) {
	return listSpoolerPrinters()
}

// SendSpooler submits data as one raw print job to the named printer queue.
// The name is validated before any OS handle is opened. On platforms without
// a native spooler every call fails with an unsupported-platform error.
func SendSpooler(printer string, data []byte) error {
	if strings.TrimSpace(printer) == "" {
		return &Error{
			Kind: KindValidation,
			Msg:  "printer name is required",
		}
	}
	return sendSpooler(printer, data)
}

// normalizePrinterNames drops blank and whitespace-only names, sorts the rest
// ascending and removes exact duplicates.
func normalizePrinterNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)

	deduped := out[:0]
	for i, name := range out {
		if i > 0 && name == out[i-1] {
			continue
		}
		deduped = append(deduped, name)
	}
	return deduped
}
