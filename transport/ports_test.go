package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func installPortList(t *testing.T, details []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := listDetailedPorts
	listDetailedPorts = func() ([]*enumerator.PortDetails, error) {
		return details, err
	}
	t.Cleanup(func() { listDetailedPorts = orig })
}

func TestListPortsSortedByName(t *testing.T) {
	installPortList(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB1"},
		{Name: "/dev/ttyACM0"},
		{Name: "/dev/ttyS0"},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)

	require.Len(t, ports, 3)
	assert.Equal(t, "/dev/ttyACM0", ports[0].Name)
	assert.Equal(t, "/dev/ttyS0", ports[1].Name)
	assert.Equal(t, "/dev/ttyUSB1", ports[2].Name)
}

func TestListPortsDropsDuplicateNames(t *testing.T) {
	installPortList(t, []*enumerator.PortDetails{
		{Name: "COM3"},
		{Name: "COM3"},
		{Name: "COM1"},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)

	require.Len(t, ports, 2)
	assert.Equal(t, "COM1", ports[0].Name)
	assert.Equal(t, "COM3", ports[1].Name)
}

func TestListPortsUSBDetails(t *testing.T) {
	installPortList(t, []*enumerator.PortDetails{
		{
			Name:         "/dev/ttyUSB0",
			IsUSB:        true,
			VID:          "04b8",
			PID:          "0202",
			Product:      "TM-T20III",
			SerialNumber: "X1A240500",
		},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	require.Len(t, ports, 1)

	p := ports[0]
	assert.Equal(t, PortTypeUSB, p.Type)
	require.NotNil(t, p.VendorID)
	assert.Equal(t, uint16(0x04b8), *p.VendorID)
	require.NotNil(t, p.ProductID)
	assert.Equal(t, uint16(0x0202), *p.ProductID)
	require.NotNil(t, p.Product)
	assert.Equal(t, "TM-T20III", *p.Product)
	require.NotNil(t, p.SerialNumber)
	assert.Equal(t, "X1A240500", *p.SerialNumber)
}

func TestListPortsAbsentFieldsAreNil(t *testing.T) {
	installPortList(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "", PID: "zzzz"},
	}, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	require.Len(t, ports, 1)

	p := ports[0]
	assert.Equal(t, PortTypeUSB, p.Type)
	assert.Nil(t, p.VendorID, "missing vid must be absent, not zero")
	assert.Nil(t, p.ProductID, "malformed pid must be absent")
	assert.Nil(t, p.Manufacturer)
	assert.Nil(t, p.Product)
	assert.Nil(t, p.SerialNumber)
}

func TestListPortsClassification(t *testing.T) {
	tests := []struct {
		name     string
		details  *enumerator.PortDetails
		expected PortType
	}{
		{"USB", &enumerator.PortDetails{Name: "/dev/ttyUSB0", IsUSB: true}, PortTypeUSB},
		{"BluetoothMac", &enumerator.PortDetails{Name: "/dev/tty.Bluetooth-Incoming-Port"}, PortTypeBluetooth},
		{"BluetoothLinux", &enumerator.PortDetails{Name: "/dev/rfcomm0"}, PortTypeBluetooth},
		{"Unknown", &enumerator.PortDetails{Name: "/dev/ttyS0"}, PortTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			installPortList(t, []*enumerator.PortDetails{tc.details}, nil)

			ports, err := ListPorts()
			require.NoError(t, err)
			require.Len(t, ports, 1)
			assert.Equal(t, tc.expected, ports[0].Type)
		})
	}
}

func TestListPortsEnumerationError(t *testing.T) {
	installPortList(t, nil, errors.New("udev unavailable"))

	ports, err := ListPorts()
	require.Error(t, err)
	assert.Nil(t, ports)
	assert.True(t, IsKind(err, KindEnumeration))
	assert.Contains(t, err.Error(), "unable to list serial ports")
}

func TestListPortsEmpty(t *testing.T) {
	installPortList(t, nil, nil)

	ports, err := ListPorts()
	require.NoError(t, err)
	assert.Empty(t, ports)
}
