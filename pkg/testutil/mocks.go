package testutil

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"time"
)

// MockDialer is a test double for tcpcheck.TCPDialer.
type MockDialer struct {
	DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)
}

func (m *MockDialer) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	return m.DialFunc(network, address, timeout)
}

// MockConn is a minimal net.Conn that records Close and Write calls.
type MockConn struct {
	closed  atomic.Bool
	written atomic.Int64
}

func (m *MockConn) Read(b []byte) (n int, err error) { return 0, nil }
func (m *MockConn) Write(b []byte) (n int, err error) {
	m.written.Add(int64(len(b)))
	return len(b), nil
}
func (m *MockConn) Close() error                       { m.closed.Store(true); return nil }
func (m *MockConn) LocalAddr() net.Addr                { return nil }
func (m *MockConn) RemoteAddr() net.Addr               { return nil }
func (m *MockConn) SetDeadline(t time.Time) error      { return nil }
func (m *MockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *MockConn) SetWriteDeadline(t time.Time) error { return nil }

// Closed reports whether Close was called.
func (m *MockConn) Closed() bool { return m.closed.Load() }

// BytesWritten reports how many bytes were written to the connection.
func (m *MockConn) BytesWritten() int { return int(m.written.Load()) }

// MockRunner is a test double for collector.Runner.
type MockRunner struct {
	RunCommandFunc func(ctx context.Context, name string, args ...string) (string, string, error)
}

func (m *MockRunner) RunCommandContext(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	return m.RunCommandFunc(ctx, name, args...)
}

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
