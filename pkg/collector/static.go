package collector

import "context"

// StaticPort is a PortSource for a port given on the command line.
type StaticPort int

// CollectorPort returns the fixed port.
func (p StaticPort) CollectorPort(context.Context) (int, error) {
	return int(p), nil
}

// StaticNodes is an Enumerator over a fixed list of records.
type StaticNodes []NodeRecord

// ListNodes returns the records unchanged.
func (n StaticNodes) ListNodes(context.Context) ([]NodeRecord, error) {
	return n, nil
}
