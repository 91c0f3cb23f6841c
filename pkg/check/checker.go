package check

// Checker is implemented by every probe the tool runs against a node.
// It returns a Result describing whether the node passed.
//
// Implementations:
//   - tcpcheck.Check: opens and closes a TCP connection to host:port
type Checker interface {
	Run() Result
}
