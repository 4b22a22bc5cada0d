package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSpoolerRejectsBlankName(t *testing.T) {
	tests := []struct {
		name    string
		printer string
	}{
		{"Empty", ""},
		{"Spaces", "   "},
		{"Tabs", "\t\t"},
		{"Mixed", " \t \n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := SendSpooler(tc.printer, []byte{0x1B, 0x40})
			require.Error(t, err)
			assert.True(t, IsKind(err, KindValidation),
				"blank names must be rejected before any OS handle is opened")
			assert.Contains(t, err.Error(), "printer name is required")
		})
	}
}

func TestNormalizePrinterNames(t *testing.T) {
	t.Run("SortsDedupsAndDropsBlanks", func(t *testing.T) {
		in := []string{"Receipt Front", "", "Kitchen", "  ", "Receipt Front", "Bar"}
		out := normalizePrinterNames(in)
		assert.Equal(t, []string{"Bar", "Kitchen", "Receipt Front"}, out)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, normalizePrinterNames(nil))
		assert.Empty(t, normalizePrinterNames([]string{"", "  "}))
	})

	t.Run("DuplicatesOnly", func(t *testing.T) {
		out := normalizePrinterNames([]string{"A", "A", "A"})
		assert.Equal(t, []string{"A"}, out)
	})
}

// fakeSpoolerDevice implements spoolerDevice and records every call made to
// it, in order.
type fakeSpoolerDevice struct {
	calls    []string
	docName  string
	datatype string
	wrote    []byte
	closed   bool

	startDocErr  error
	startPageErr error
	writeErr     error
	writeShort   int // bytes reported written instead of len(data); 0 disables
	endPageErr   error
	endDocErr    error
}

func (f *fakeSpoolerDevice) StartDoc(docName, datatype string) error {
	f.calls = append(f.calls, "startDoc")
	f.docName = docName
	f.datatype = datatype
	return f.startDocErr
}

func (f *fakeSpoolerDevice) StartPage() error {
	f.calls = append(f.calls, "startPage")
	return f.startPageErr
}

func (f *fakeSpoolerDevice) Write(data []byte) (int, error) {
	f.calls = append(f.calls, "write")
	f.wrote = append(f.wrote, data...)
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.writeShort > 0 {
		return f.writeShort, nil
	}
	return len(data), nil
}

func (f *fakeSpoolerDevice) EndPage() error {
	f.calls = append(f.calls, "endPage")
	return f.endPageErr
}

func (f *fakeSpoolerDevice) EndDoc() error {
	f.calls = append(f.calls, "endDoc")
	return f.endDocErr
}

func (f *fakeSpoolerDevice) Close() error {
	f.calls = append(f.calls, "close")
	f.closed = true
	return nil
}

func TestRunSpoolerJobSuccess(t *testing.T) {
	dev := &fakeSpoolerDevice{}
	payload := []byte{0x1B, 0x40, 0x1D, 0x56, 0x00}

	err := runSpoolerJob(dev, "Receipt Front", payload)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"startDoc", "startPage", "write", "endPage", "endDoc", "close"},
		dev.calls)
	assert.Equal(t, spoolerDocName, dev.docName)
	assert.Equal(t, spoolerDataType, dev.datatype)
	assert.Equal(t, payload, dev.wrote)
}

func TestRunSpoolerJobShortWrite(t *testing.T) {
	// The OS reports success but only 10 of 20 bytes written.
	dev := &fakeSpoolerDevice{writeShort: 10}
	payload := make([]byte, 20)

	err := runSpoolerJob(dev, "Receipt Front", payload)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindWrite))
	assert.Contains(t, err.Error(), "10/20 bytes")

	// Page and document are still ended and the handle is released.
	assert.Equal(t,
		[]string{"startDoc", "startPage", "write", "endPage", "endDoc", "close"},
		dev.calls)
	assert.True(t, dev.closed)
}

func TestRunSpoolerJobWriteError(t *testing.T) {
	dev := &fakeSpoolerDevice{writeErr: errors.New("spooler stalled")}

	err := runSpoolerJob(dev, "Receipt Front", []byte{0x1B, 0x40})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindWrite))
	assert.Contains(t, err.Error(), "spooler stalled")

	assert.Contains(t, dev.calls, "endPage")
	assert.Contains(t, dev.calls, "endDoc")
	assert.True(t, dev.closed)
}

func TestRunSpoolerJobStartDocError(t *testing.T) {
	dev := &fakeSpoolerDevice{startDocErr: errors.New("StartDocPrinter failed")}

	err := runSpoolerJob(dev, "Receipt Front", []byte{0x1B, 0x40})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindJobStart))

	// Nothing past the failed call, but the handle is still released.
	assert.Equal(t, []string{"startDoc", "close"}, dev.calls)
	assert.True(t, dev.closed)
}

func TestRunSpoolerJobStartPageError(t *testing.T) {
	dev := &fakeSpoolerDevice{startPageErr: errors.New("StartPagePrinter failed")}

	err := runSpoolerJob(dev, "Receipt Front", []byte{0x1B, 0x40})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPageStart))

	// The document is ended and the handle released before the error returns.
	assert.Equal(t, []string{"startDoc", "startPage", "endDoc", "close"}, dev.calls)
	assert.True(t, dev.closed)
}

func TestRunSpoolerJobFinalizeError(t *testing.T) {
	tests := []struct {
		name string
		dev  *fakeSpoolerDevice
	}{
		{"EndPageFails", &fakeSpoolerDevice{endPageErr: errors.New("EndPagePrinter failed")}},
		{"EndDocFails", &fakeSpoolerDevice{endDocErr: errors.New("EndDocPrinter failed")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := runSpoolerJob(tc.dev, "Receipt Front", []byte{0x1B, 0x40})
			require.Error(t, err)
			assert.True(t, IsKind(err, KindFlush))
			assert.True(t, tc.dev.closed)
		})
	}
}

func TestRunSpoolerJobEmptyPayload(t *testing.T) {
	dev := &fakeSpoolerDevice{}

	err := runSpoolerJob(dev, "Receipt Front", nil)
	require.NoError(t, err)

	assert.Empty(t, dev.wrote)
	assert.True(t, dev.closed)
}
