package tcpcheck

import (
	"net"
	"strconv"
	"time"

	"github.com/vertti/condorcheck/pkg/check"
)

// DefaultTimeout is used when Check.Timeout is zero.
const DefaultTimeout = 3 * time.Second

// TCPDialer abstracts network dialing for testability.
type TCPDialer interface {
	DialTimeout(network, address string, timeout time.Duration) (net.Conn, error)
}

// RealTCPDialer uses the real net package.
type RealTCPDialer struct{}

// DialTimeout dials the network address with a timeout.
func (d *RealTCPDialer) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

// Check verifies that a TCP handshake with Host:Port completes.
// No data is exchanged; the connection is closed as soon as it is open.
type Check struct {
	Host    string        // hostname or IP to connect to
	Port    int           // TCP port
	Timeout time.Duration // connection timeout (default 3s)
	Dialer  TCPDialer     // injected for testing
}

// Address returns the dial address for the check.
func (c *Check) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Run executes the TCP connectivity check.
func (c *Check) Run() check.Result {
	address := c.Address()
	result := check.Result{
		Name: "tcp: " + address,
		Host: c.Host,
		Port: c.Port,
	}

	// net treats ":port" as the local machine, so an empty host would test
	// this machine instead of a worker.
	if c.Host == "" {
		return result.Failf("connection failed: %w", &net.DNSError{Err: "no such host", Name: c.Host, IsNotFound: true})
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	dialer := c.Dialer
	if dialer == nil {
		dialer = &RealTCPDialer{}
	}

	conn, err := dialer.DialTimeout("tcp", address, timeout)
	if err != nil {
		return result.Failf("connection failed: %w", err)
	}
	_ = conn.Close()

	result.AddDetailf("connected to %s", address)
	return result.Pass()
}
