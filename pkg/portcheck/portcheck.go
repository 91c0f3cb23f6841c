// Package portcheck probes a set of hosts on one TCP port and reports
// whether every one of them accepted a connection.
package portcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vertti/condorcheck/pkg/check"
	"github.com/vertti/condorcheck/pkg/tcpcheck"
)

// Checker probes hosts one port at a time.
type Checker struct {
	Dialer   tcpcheck.TCPDialer // nil uses the real network
	Timeout  time.Duration      // per-host connect timeout
	Parallel int                // probes in flight; <= 1 means sequential
	Log      logrus.FieldLogger // receives one line per host
}

// Report is the outcome of probing every host once.
type Report struct {
	Port    int
	Results []check.Result // same order as the hosts passed to Check
}

// OK reports whether every host was reachable. No hosts is a pass.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Failed returns the hosts that could not be reached.
func (r *Report) Failed() []string {
	var hosts []string
	for _, res := range r.Results {
		if !res.OK() {
			hosts = append(hosts, res.Host)
		}
	}
	return hosts
}

// Err combines every per-host failure into one error, or nil when OK.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, res := range r.Results {
		if !res.OK() {
			merr = multierror.Append(merr, fmt.Errorf("%s %d: %w", res.Host, res.Port, res.Err))
		}
	}
	return merr.ErrorOrNil()
}

// Check probes each host once on port and logs the outcome of every probe.
// Per-host failures never stop the run. Once ctx is done no further probes
// start and the remaining hosts are reported as failed with ctx's error.
func (c *Checker) Check(ctx context.Context, hosts []string, port int) *Report {
	report := &Report{
		Port:    port,
		Results: make([]check.Result, len(hosts)),
	}

	limit := c.Parallel
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, host := range hosts {
		if err := ctx.Err(); err != nil {
			report.Results[i] = c.skipped(host, port, err)
			continue
		}
		g.Go(func() error {
			report.Results[i] = c.probe(ctx, host, port)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (c *Checker) probe(ctx context.Context, host string, port int) check.Result {
	if err := ctx.Err(); err != nil {
		return c.skipped(host, port, err)
	}

	var probe check.Checker = &tcpcheck.Check{
		Host:    host,
		Port:    port,
		Timeout: c.Timeout,
		Dialer:  c.Dialer,
	}
	result := probe.Run()
	c.logResult(result)
	return result
}

func (c *Checker) skipped(host string, port int, err error) check.Result {
	tc := tcpcheck.Check{Host: host, Port: port}
	result := check.Result{Name: "tcp: " + tc.Address(), Host: host, Port: port}
	result.Failf("not probed: %w", err)
	c.logResult(result)
	return result
}

func (c *Checker) logResult(r check.Result) {
	log := c.logger()
	if r.OK() {
		log.Infof("%s %d good", r.Host, r.Port)
		return
	}
	log.Warnf("%s %d bad %v", r.Host, r.Port, unwrapDetail(r.Err))
}

func (c *Checker) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

// unwrapDetail drops the "connection failed:" prefix added by tcpcheck so
// the log line carries the transport error itself.
func unwrapDetail(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
