package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultCollectorPort is HTCondor's well-known collector port.
	DefaultCollectorPort = 9618

	// CollectorPortKey is the configuration knob holding the collector port.
	CollectorPortKey = "COLLECTOR_PORT"

	statusCommand = "condor_status"
	configCommand = "condor_config_val"
)

// ErrInvalidOutput is returned when condor_status prints something other
// than a JSON array of ads.
var ErrInvalidOutput = errors.New("unexpected condor_status output")

// Enumerator lists the worker-node records known to the resource manager.
type Enumerator interface {
	ListNodes(ctx context.Context) ([]NodeRecord, error)
}

// PortSource returns the port every worker should be listening on.
type PortSource interface {
	CollectorPort(ctx context.Context) (int, error)
}

// Condor talks to HTCondor through its command line tools.
type Condor struct {
	Pool       string // collector to query (condor_status -pool), empty for the local default
	Constraint string // optional ClassAd constraint applied to the startd query
	Runner     Runner // injected for testing
}

func (c *Condor) runner() Runner {
	if c.Runner == nil {
		return &RealRunner{}
	}
	return c.Runner
}

// statusArgs builds the condor_status invocation for a startd query.
func (c *Condor) statusArgs() []string {
	args := []string{"-startd", "-json", "-attributes", "Machine,Name"}
	if c.Pool != "" {
		args = append(args, "-pool", c.Pool)
	}
	if c.Constraint != "" {
		args = append(args, "-constraint", c.Constraint)
	}
	return args
}

// ListNodes returns one record per startd ad the collector reports.
func (c *Condor) ListNodes(ctx context.Context) ([]NodeRecord, error) {
	stdout, stderr, err := c.runner().RunCommandContext(ctx, statusCommand, c.statusArgs()...)
	if err != nil {
		return nil, commandError(statusCommand, stderr, err)
	}
	return ParseAds(stdout)
}

// CollectorPort reads COLLECTOR_PORT from the local HTCondor configuration.
// An undefined knob falls back to DefaultCollectorPort.
func (c *Condor) CollectorPort(ctx context.Context) (int, error) {
	stdout, stderr, err := c.runner().RunCommandContext(ctx, configCommand, CollectorPortKey)
	if err != nil {
		if strings.Contains(stderr, "Not defined") {
			return DefaultCollectorPort, nil
		}
		return 0, commandError(configCommand, stderr, err)
	}
	return ParsePort(stdout)
}

// ParseAds decodes the JSON array printed by condor_status -json.
// Empty output means the collector had no matching ads.
func ParseAds(out string) ([]NodeRecord, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidOutput)
	}
	parsed := gjson.Parse(out)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrInvalidOutput, parsed.Type)
	}

	var records []NodeRecord
	for _, ad := range parsed.Array() {
		if !ad.IsObject() {
			return nil, fmt.Errorf("%w: ad is %s, not an object", ErrInvalidOutput, ad.Type)
		}
		records = append(records, NodeRecord{
			Machine: attr(ad, "Machine"),
			Name:    attr(ad, "Name"),
		})
	}
	return records, nil
}

// attr looks up a ClassAd attribute. Attribute names are case-insensitive.
func attr(ad gjson.Result, name string) string {
	var value string
	ad.ForEach(func(key, v gjson.Result) bool {
		if strings.EqualFold(key.String(), name) {
			if v.Type == gjson.String {
				value = v.String()
			}
			return false
		}
		return true
	})
	return value
}

// ParsePort converts condor_config_val output into a port number.
func ParsePort(out string) (int, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return DefaultCollectorPort, nil
	}
	port, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", CollectorPortKey, out, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s %d: out of range", CollectorPortKey, port)
	}
	return port, nil
}

func commandError(name, stderr string, err error) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}
