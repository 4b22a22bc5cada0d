// Package gateway exposes the printer transports as a command surface backed
// by a bounded worker pool. Callers submit an operation and await its result;
// the blocking transport I/O always runs on a pool worker, never on the
// caller's goroutine. Operations are independent: the pool provides no
// ordering, queue management or mutual exclusion across jobs, which is safe
// because every transport call opens and fully closes its own OS resource.
package gateway

import (
	"sync"

	"github.com/nixxel-company-limited/escpos-print-gateway/transport"
)

// DefaultWorkers bounds concurrent transport I/O when no explicit worker
// count is given.
const DefaultWorkers = 4

// Gateway dispatches print and enumeration operations onto its worker pool.
type Gateway struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a gateway with the given number of workers; values below one
// fall back to DefaultWorkers.
func New(workers int) *Gateway {
	if workers < 1 {
		workers = DefaultWorkers
	}

	g := &Gateway{tasks: make(chan func(), workers)}
	for i := 0; i < workers; i++ {
		g.wg.Add(1)
		go g.worker()
	}
	return g
}

func (g *Gateway) worker() {
	defer g.wg.Done()
	for task := range g.tasks {
		task()
	}
}

// Close stops accepting new operations and waits for in-flight ones to
// finish. Transports have no mid-operation cancellation; a running send only
// ends when it completes or its timeout expires.
func (g *Gateway) Close() {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.tasks)
	}
	g.mu.Unlock()

	g.wg.Wait()
}

// enqueue submits a task unless the gateway is closed.
func (g *Gateway) enqueue(task func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.tasks <- task
	return true
}

// dispatch runs fn on a pool worker and waits for its result. Failure to
// schedule the task at all is surfaced as its own error rather than silently
// dropped.
func dispatch[T any](g *Gateway, fn func() (T, error)) (T, error) {
	var (
		out  T
		err  error
		done = make(chan struct{})
	)

	submitted := g.enqueue(func() {
		defer close(done)
		out, err = fn()
	})
	if !submitted {
		var zero T
		return zero, &transport.Error{
			Kind: transport.KindDispatch,
			Msg:  "print task failed: gateway is closed",
		}
	}

	<-done
	return out, err
}

// dispatchErr is dispatch for operations that only produce an error.
func dispatchErr(g *Gateway, fn func() error) error {
	_, err := dispatch(g, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// TCPPrint sends data to a network printer at host:port.
func (g *Gateway) TCPPrint(host string, port uint16, data []byte) error {
	return dispatchErr(g, func() error {
		return transport.SendTCP(host, port, data)
	})
}

// SerialPrint sends data to the named serial device at the given baud rate.
func (g *Gateway) SerialPrint(device string, baud int, data []byte) error {
	return dispatchErr(g, func() error {
		return transport.SendSerial(device, baud, data)
	})
}

// SpoolerPrint submits data as a raw job to the named OS printer queue.
func (g *Gateway) SpoolerPrint(printer string, data []byte) error {
	return dispatchErr(g, func() error {
		return transport.SendSpooler(printer, data)
	})
}

// USBPrint sends data to a USB printer by vendor/product id; zero/zero
// auto-detects the first printer-class device.
func (g *Gateway) USBPrint(vid, pid uint16, data []byte) error {
	return dispatchErr(g, func() error {
		return transport.SendUSB(vid, pid, data)
	})
}

// Send delivers data to an arbitrary transport target.
func (g *Gateway) Send(target transport.Target, data []byte) error {
	return dispatchErr(g, func() error {
		return transport.Send(target, data)
	})
}

// ListSerialPorts enumerates serial devices, sorted by name.
func (g *Gateway) ListSerialPorts() ([]transport.PortInfo, error) {
	return dispatch(g, transport.ListPorts)
}

// ListPrinters enumerates OS spooler printer queues; empty on platforms
// without a native spooler.
func (g *Gateway) ListPrinters() ([]string, error) {
	return dispatch(g, transport.ListPrinters)
}

// ListUSBPrinters enumerates printer-class USB devices.
func (g *Gateway) ListUSBPrinters() ([]transport.USBPrinterInfo, error) {
	return dispatch(g, transport.ListUSBPrinters)
}
