package transport

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Network printers accept raw jobs on short-lived connections; both the
// connect and the write are bounded by the same hard limit.
const tcpTimeout = 3 * time.Second

// SendTCP opens a connection to host:port, writes data and closes the
// connection. One connection per call, no reuse.
//
// Nagle's algorithm is disabled and a write deadline is set on a best-effort
// basis; receipt payloads are small and latency matters more than throughput.
func SendTCP(host string, port uint16, data []byte) error {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return &Error{
			Kind: KindResolution,
			Msg:  fmt.Sprintf("unable to resolve host %s", addr),
			Err:  err,
		}
	}

	conn, err := net.DialTimeout("tcp", tcpAddr.String(), tcpTimeout)
	if err != nil {
		return &Error{
			Kind: KindConnect,
			Msg:  fmt.Sprintf("tcp connect to %s failed", addr),
			Err:  err,
		}
	}
	defer conn.Close()

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(tcpTimeout))

	if _, err := conn.Write(data); err != nil {
		return &Error{
			Kind: KindWrite,
			Msg:  fmt.Sprintf("tcp write to %s failed", addr),
			Err:  err,
		}
	}

	// A TCP stream has no flush beyond a completed write; once Write returns
	// the payload is in the kernel send buffer and the job counts as sent.
	return nil
}
