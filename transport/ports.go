package transport

import (
	"sort"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortType tags how an enumerated serial device is attached to the host.
type PortType string

const (
	PortTypeUSB       PortType = "usb"
	PortTypeBluetooth PortType = "bluetooth"
	PortTypePCI       PortType = "pci"
	PortTypeUnknown   PortType = "unknown"
)

// PortInfo is a read-only snapshot of one enumerated serial device. Optional
// fields are nil when the OS did not report them; a nil field means "not
// reported", which is distinct from a reported empty string.
type PortInfo struct {
	Name         string   `json:"port_name"`
	Type         PortType `json:"port_type"`
	Manufacturer *string  `json:"manufacturer,omitempty"`
	Product      *string  `json:"product,omitempty"`
	SerialNumber *string  `json:"serial_number,omitempty"`
	VendorID     *uint16  `json:"vid,omitempty"`
	ProductID    *uint16  `json:"pid,omitempty"`
}

// listDetailedPorts is swapped out in tests.
var listDetailedPorts = enumerator.GetDetailedPortsList

// ListPorts enumerates the serial devices visible to the OS. The result is
// sorted ascending by device name and contains no duplicate names; ordering
// does not depend on the order the OS reports devices in. Names are unique
// within one call but not guaranteed stable across calls.
func ListPorts() ([]PortInfo, error) {
	details, err := listDetailedPorts()
	if err != nil {
		return nil, &Error{
			Kind: KindEnumeration,
			Msg:  "unable to list serial ports",
			Err:  err,
		}
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].Name < details[j].Name
	})

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if n := len(ports); n > 0 && ports[n-1].Name == d.Name {
			continue
		}
		ports = append(ports, describePort(d))
	}

	return ports, nil
}

func describePort(d *enumerator.PortDetails) PortInfo {
	info := PortInfo{
		Name: d.Name,
		Type: PortTypeUnknown,
	}

	switch {
	case d.IsUSB:
		info.Type = PortTypeUSB
		info.Product = optionalString(d.Product)
		info.SerialNumber = optionalString(d.SerialNumber)
		info.VendorID = parseUSBID(d.VID)
		info.ProductID = parseUSBID(d.PID)
	case isBluetoothName(d.Name):
		info.Type = PortTypeBluetooth
	}

	return info
}

// isBluetoothName recognises the device-node naming the OS uses for serial
// ports backed by a Bluetooth channel (rfcomm nodes on Linux, tty.Bluetooth-*
// on macOS). The enumerator itself only distinguishes USB ports.
func isBluetoothName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bluetooth") || strings.Contains(lower, "rfcomm")
}

// parseUSBID converts the enumerator's hexadecimal id string ("04b8") to a
// numeric id, or nil when the id is missing or malformed.
func parseUSBID(id string) *uint16 {
	if id == "" {
		return nil
	}
	v, err := strconv.ParseUint(id, 16, 16)
	if err != nil {
		return nil
	}
	out := uint16(v)
	return &out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
