// Package collector enumerates worker nodes known to an HTCondor collector
// and reduces them to the set of hostnames that should be probed.
package collector

import (
	"sort"
	"strings"
)

// UnknownName stands in for a record that carries neither Machine nor Name.
const UnknownName = "Unknown"

// NodeRecord is the part of a startd ad needed to find its host.
// Empty strings mean the attribute was absent.
type NodeRecord struct {
	Machine string
	Name    string // may be "slot1@host"
}

// Hostname returns the host a record refers to.
//
// Machine wins when set. Otherwise Name is used, and for a Name of the form
// "user@host" only the field between the first and second '@' is kept, so
// "a@b@c" yields "b".
func Hostname(r NodeRecord) string {
	if r.Machine != "" {
		return r.Machine
	}
	name := r.Name
	if name == "" {
		name = UnknownName
	}
	if strings.Contains(name, "@") {
		return strings.Split(name, "@")[1]
	}
	return name
}

// HostnameSet holds the unique hostnames for a single run.
type HostnameSet map[string]struct{}

// Add inserts host. Duplicates are ignored.
func (s HostnameSet) Add(host string) {
	s[host] = struct{}{}
}

// Contains reports whether host is in the set.
func (s HostnameSet) Contains(host string) bool {
	_, ok := s[host]
	return ok
}

// Len returns the number of unique hostnames.
func (s HostnameSet) Len() int {
	return len(s)
}

// Sorted returns the hostnames in lexical order.
func (s HostnameSet) Sorted() []string {
	hosts := make([]string, 0, len(s))
	for h := range s {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// UniqueHostnames resolves every record and collapses duplicates, which are
// expected when one machine advertises several slots.
func UniqueHostnames(records []NodeRecord) HostnameSet {
	set := make(HostnameSet, len(records))
	for _, r := range records {
		set.Add(Hostname(r))
	}
	return set
}
