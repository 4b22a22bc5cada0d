package transport

import (
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/google/gousb"
)

// Interface class codes
// Reference: http://www.usb.org/developers/defined_class
const ifaceClassPrinter = 0x07

// USBPrinterInfo is a read-only snapshot of one enumerated USB printer.
// String descriptors are nil when the device did not report them.
type USBPrinterInfo struct {
	VendorID     uint16  `json:"vid"`
	ProductID    uint16  `json:"pid"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	Product      *string `json:"product,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
}

// isPrinterDesc reports whether a device descriptor advertises a printer-class
// interface. It works on the descriptor alone, so filtering does not require
// opening the device.
func isPrinterDesc(desc *gousb.DeviceDesc) bool {
	if desc == nil {
		return false
	}
	if desc.Class == ifaceClassPrinter {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				if alt.Class == ifaceClassPrinter {
					return true
				}
			}
		}
	}
	return false
}

// ListUSBPrinters enumerates the printer-class devices on the USB bus with
// their descriptors. Devices whose string descriptors cannot be read are still
// listed, with those fields absent.
func ListUSBPrinters() ([]USBPrinterInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	devices, err := ctx.OpenDevices(isPrinterDesc)
	for _, dev := range devices {
		defer dev.Close()
	}
	if err != nil {
		return nil, &Error{
			Kind: KindEnumeration,
			Msg:  "unable to enumerate usb printers",
			Err:  err,
		}
	}

	printers := make([]USBPrinterInfo, 0, len(devices))
	for _, dev := range devices {
		info := USBPrinterInfo{
			VendorID:  uint16(dev.Desc.Vendor),
			ProductID: uint16(dev.Desc.Product),
		}
		if s, err := dev.Manufacturer(); err == nil {
			info.Manufacturer = optionalString(s)
		}
		if s, err := dev.Product(); err == nil {
			info.Product = optionalString(s)
		}
		if s, err := dev.SerialNumber(); err == nil {
			info.SerialNumber = optionalString(s)
		}
		printers = append(printers, info)
	}

	sort.Slice(printers, func(i, j int) bool {
		if printers[i].VendorID != printers[j].VendorID {
			return printers[i].VendorID < printers[j].VendorID
		}
		return printers[i].ProductID < printers[j].ProductID
	})

	return printers, nil
}

// SendUSB writes data to the printer-class OUT endpoint of a USB printer.
// A non-zero vid/pid pair selects the device; zero/zero auto-detects the first
// printer on the bus. Context, device, configuration and interface are all
// released before the call returns, on every path.
func SendUSB(vid, pid uint16, data []byte) error {
	ctx := gousb.NewContext()
	defer ctx.Close()

	dev, err := openUSBPrinter(ctx, vid, pid)
	if err != nil {
		return err
	}
	defer dev.Close()

	// libusb cannot claim an interface the kernel already drives.
	if runtime.GOOS == "linux" {
		dev.SetAutoDetach(true)
	}

	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to read active config of usb printer %s", usbName(vid, pid)),
			Err:  err,
		}
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to select config of usb printer %s", usbName(vid, pid)),
			Err:  err,
		}
	}
	defer cfg.Close()

	ifaceNum := -1
	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				ifaceNum = iface.Number
				break
			}
		}
		if ifaceNum >= 0 {
			break
		}
	}
	if ifaceNum < 0 {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("usb device %s has no printer interface", usbName(vid, pid)),
		}
	}

	iface, err := cfg.Interface(ifaceNum, 0)
	if err != nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("unable to claim printer interface of %s", usbName(vid, pid)),
			Err:  err,
		}
	}
	defer iface.Close()

	var out *gousb.OutEndpoint
	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				out = ep
				break
			}
		}
	}
	if out == nil {
		return &Error{
			Kind: KindOpen,
			Msg:  fmt.Sprintf("cannot find output endpoint on usb printer %s", usbName(vid, pid)),
		}
	}

	n, err := out.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &Error{
			Kind: KindWrite,
			Msg:  fmt.Sprintf("usb write failed (%s)", usbName(vid, pid)),
			Err:  err,
		}
	}

	return nil
}

// openUSBPrinter resolves vid/pid to an opened device, or auto-detects the
// first printer-class device when both ids are zero.
func openUSBPrinter(ctx *gousb.Context, vid, pid uint16) (*gousb.Device, error) {
	if vid != 0 || pid != 0 {
		dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
		if err != nil || dev == nil {
			return nil, &Error{
				Kind: KindOpen,
				Msg:  fmt.Sprintf("unable to open usb printer %s", usbName(vid, pid)),
				Err:  err,
			}
		}
		return dev, nil
	}

	devices, err := ctx.OpenDevices(isPrinterDesc)
	if err != nil {
		for _, dev := range devices {
			dev.Close()
		}
		return nil, &Error{
			Kind: KindOpen,
			Msg:  "unable to scan for usb printers",
			Err:  err,
		}
	}
	if len(devices) == 0 {
		return nil, &Error{
			Kind: KindOpen,
			Msg:  "cannot find usb printer",
		}
	}

	for _, dev := range devices[1:] {
		dev.Close()
	}
	return devices[0], nil
}

func usbName(vid, pid uint16) string {
	if vid == 0 && pid == 0 {
		return "auto"
	}
	return fmt.Sprintf("%04x:%04x", vid, pid)
}
