package transport

import "errors"

// Kind classifies a transport failure. Every operation in this package fails
// with exactly one Kind; all failures are terminal for the call that produced
// them, there is no internal retry.
type Kind string

const (
	// KindResolution means a host name could not be resolved to an address.
	KindResolution Kind = "resolution"

	// KindConnect means a TCP connection could not be established.
	KindConnect Kind = "connect"

	// KindOpen means a device, port or printer handle could not be opened.
	KindOpen Kind = "open"

	// KindWrite means a write did not deliver the full payload.
	KindWrite Kind = "write"

	// KindFlush means buffered data could not be pushed out to the device.
	KindFlush Kind = "flush"

	// KindEnumeration means a device listing query failed.
	KindEnumeration Kind = "enumeration"

	// KindValidation means the caller-supplied input was rejected before any
	// OS resource was touched.
	KindValidation Kind = "validation"

	// KindJobStart means the spooler refused to start a print job.
	KindJobStart Kind = "job-start"

	// KindPageStart means the spooler refused to start a page.
	KindPageStart Kind = "page-start"

	// KindUnsupported means the requested transport does not exist on this
	// platform.
	KindUnsupported Kind = "unsupported-platform"

	// KindDispatch means the worker executing the operation could not be
	// scheduled at all; the transport itself was never reached.
	KindDispatch Kind = "dispatch"
)

// Error is the error type returned by every operation in this package.
// Msg is a complete human-readable description (it already embeds the
// device/host/printer name where relevant); Err carries the underlying OS or
// library cause when there is one.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a transport *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}
