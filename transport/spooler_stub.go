//go:build !windows

package transport

// Only Windows exposes a native print-spooler API. Elsewhere the spooler
// transport reports itself unavailable: an empty printer list is a valid
// result, a send is a hard failure.

func listSpoolerPrinters() ([]string, error) {
	return []string{}, nil
}

func sendSpooler(printer string, data []byte) error {
	return &Error{
		Kind: KindUnsupported,
		Msg:  "spooler transport is only available on windows builds",
	}
}
