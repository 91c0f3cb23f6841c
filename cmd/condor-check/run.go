package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vertti/condorcheck/pkg/collector"
	"github.com/vertti/condorcheck/pkg/config"
	"github.com/vertti/condorcheck/pkg/output"
	"github.com/vertti/condorcheck/pkg/portcheck"
	"github.com/vertti/condorcheck/pkg/tcpcheck"
)

// ErrCheckFailed is returned when at least one host could not be reached.
// The returned error causes the process to exit with code 1.
var ErrCheckFailed = errors.New("check failed")

var (
	opts    config.Settings
	summary bool
	envErr  error
)

// loggedError marks an error that has already been written to the log.
type loggedError struct{ err error }

func (e loggedError) Error() string { return e.err.Error() }
func (e loggedError) Unwrap() error { return e.err }

func logged(log logrus.FieldLogger, err error) error {
	log.Error(err)
	return loggedError{err}
}

// staticNodes turns --hosts into records so they go through the same
// hostname resolution as collector ads.
func staticNodes(hosts []string) collector.StaticNodes {
	nodes := make(collector.StaticNodes, 0, len(hosts))
	for _, h := range hosts {
		nodes = append(nodes, collector.NodeRecord{Name: h})
	}
	return nodes
}

// Collaborators, replaced in tests.
var (
	newEnumerator = func(s config.Settings) collector.Enumerator {
		if len(s.Hosts) > 0 {
			return staticNodes(s.Hosts)
		}
		return &collector.Condor{Pool: s.Pool, Constraint: s.Constraint}
	}
	newPortSource = func(s config.Settings) collector.PortSource {
		if s.Port != 0 {
			return collector.StaticPort(s.Port)
		}
		return &collector.Condor{}
	}
	newDialer = func() tcpcheck.TCPDialer {
		return &tcpcheck.RealTCPDialer{}
	}
)

func init() {
	var defaults config.Settings
	defaults, envErr = config.Load()

	f := rootCmd.Flags()
	f.StringVarP(&opts.LogLevel, "loglevel", "l", defaults.LogLevel, "log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	f.IntVar(&opts.Timeout, "timeout", defaults.Timeout, "connection timeout in seconds")
	f.IntVar(&opts.Port, "port", defaults.Port, "port to probe (0 reads COLLECTOR_PORT from the HTCondor config)")
	f.StringVar(&opts.Pool, "pool", defaults.Pool, "collector to query instead of the local default")
	f.StringVar(&opts.Constraint, "constraint", defaults.Constraint, "ClassAd constraint for the startd query")
	f.IntVar(&opts.Parallel, "parallel", defaults.Parallel, "number of hosts to probe at once")
	f.StringSliceVar(&opts.Hosts, "hosts", defaults.Hosts, "comma-separated hosts to probe instead of querying the collector")
	f.BoolVar(&summary, "summary", false, "print an [OK]/[FAIL] line per host to stdout")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if envErr != nil {
		return envErr
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	log, err := output.NewLogger(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	port, err := newPortSource(opts).CollectorPort(ctx)
	if err != nil {
		return logged(log, fmt.Errorf("looking up collector port: %w", err))
	}

	records, err := newEnumerator(opts).ListNodes(ctx)
	if err != nil {
		return logged(log, fmt.Errorf("listing worker nodes: %w", err))
	}

	hosts := collector.UniqueHostnames(records)
	log.Debugf("%d startd ads, %d unique hosts, port %d", len(records), hosts.Len(), port)

	checker := &portcheck.Checker{
		Dialer:   newDialer(),
		Timeout:  time.Duration(opts.Timeout) * time.Second,
		Parallel: opts.Parallel,
		Log:      log,
	}
	report := checker.Check(ctx, hosts.Sorted(), port)

	if summary {
		output.PrintSummary(cmd.OutOrStdout(), report.Results)
	}

	if !report.OK() {
		log.Debugf("unreachable: %v", report.Err())
		return ErrCheckFailed
	}
	return nil
}
