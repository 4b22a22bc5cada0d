package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/nixxel-company-limited/escpos-print-gateway/gateway"
	"github.com/nixxel-company-limited/escpos-print-gateway/server"
	"github.com/nixxel-company-limited/escpos-print-gateway/transport"
)

func main() {
	// All configuration comes from environment variables.
	viper.AutomaticEnv()
	viper.SetDefault("LISTEN_ADDRESS", "localhost:9100")
	viper.SetDefault("GATEWAY_WORKERS", gateway.DefaultWorkers)
	viper.SetDefault("GATEWAY_TRANSPORT", "usb")
	viper.SetDefault("TCP_PORT", 9100)
	viper.SetDefault("SERIAL_BAUD", 9600)
	viper.SetDefault("USB_VID", 0)
	viper.SetDefault("USB_PID", 0)

	g := gateway.New(viper.GetInt("GATEWAY_WORKERS"))
	defer g.Close()

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		runServe(g)
	case "list-ports":
		ports, err := g.ListSerialPorts()
		printJSON(ports, err)
	case "list-printers":
		printers, err := g.ListPrinters()
		printJSON(printers, err)
	case "list-usb":
		printers, err := g.ListUSBPrinters()
		printJSON(printers, err)
	case "print":
		runPrint(g)
	default:
		log.Fatalf("unknown command %q (expected serve, list-ports, list-printers, list-usb or print)", command)
	}
}

// runServe blocks on the raw print listener until the process is terminated.
func runServe(g *gateway.Gateway) {
	target, err := buildTarget()
	if err != nil {
		log.Fatalf("invalid transport configuration: %v", err)
	}

	address := viper.GetString("LISTEN_ADDRESS")
	log.Printf("Server will listen on: %s", address)

	svr := server.New(g, target, address)
	if err := svr.Start(); err != nil {
		panic(err)
	}
}

// runPrint sends one file (or stdin, when the argument is "-") to the
// configured transport target and exits.
func runPrint(g *gateway.Gateway) {
	if len(os.Args) < 3 {
		log.Fatal("usage: escpos-print-gateway print <file|->")
	}

	target, err := buildTarget()
	if err != nil {
		log.Fatalf("invalid transport configuration: %v", err)
	}

	var data []byte
	if os.Args[2] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(os.Args[2])
	}
	if err != nil {
		log.Fatalf("unable to read payload: %v", err)
	}

	if err := g.Send(target, data); err != nil {
		log.Fatalf("print failed: %v", err)
	}
	log.Printf("Sent %d bytes to %s", len(data), target)
}

// buildTarget assembles the transport target from GATEWAY_TRANSPORT and its
// per-transport settings.
func buildTarget() (transport.Target, error) {
	switch name := viper.GetString("GATEWAY_TRANSPORT"); name {
	case "tcp":
		host := viper.GetString("TCP_HOST")
		if host == "" {
			return nil, fmt.Errorf("TCP_HOST is required for the tcp transport")
		}
		return transport.TCP{Host: host, Port: uint16(viper.GetUint("TCP_PORT"))}, nil
	case "serial":
		device := viper.GetString("SERIAL_PORT")
		if device == "" {
			return nil, fmt.Errorf("SERIAL_PORT is required for the serial transport")
		}
		return transport.Serial{Device: device, Baud: viper.GetInt("SERIAL_BAUD")}, nil
	case "spooler":
		printer := viper.GetString("SPOOLER_PRINTER")
		if printer == "" {
			return nil, fmt.Errorf("SPOOLER_PRINTER is required for the spooler transport")
		}
		return transport.Spooler{Printer: printer}, nil
	case "usb":
		return transport.USB{
			VendorID:  uint16(viper.GetUint("USB_VID")),
			ProductID: uint16(viper.GetUint("USB_PID")),
		}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (expected tcp, serial, spooler or usb)", name)
	}
}

func printJSON(v any, err error) {
	if err != nil {
		log.Fatalf("enumeration failed: %v", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("unable to encode result: %v", err)
	}
	fmt.Println(string(out))
}
