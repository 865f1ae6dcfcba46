// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ScrapeError records one sidecar port that failed to scrape; scraping
// continues past individual failures, so callers decide whether to log or
// surface these.
type ScrapeError struct {
	Port int
	Err  error
}

func (e ScrapeError) Error() string {
	return fmt.Sprintf("acquire: sidecar port %d: %v", e.Port, e.Err)
}

// SidecarScraper fetches the Prometheus text exposed by a container's
// metricPorts sidecars, concurrently and without retries, so one slow or
// dead sidecar cannot stall the whole request (spec §4.3).
type SidecarScraper struct {
	Getter HTTPGetter
}

// NewSidecarScraper constructs a SidecarScraper over the given
// collaborator.
func NewSidecarScraper(getter HTTPGetter) *SidecarScraper {
	return &SidecarScraper{Getter: getter}
}

// ParseMetricPorts splits the comma-delimited customer_metadata.metricPorts
// value into port numbers, skipping empty entries.
func ParseMetricPorts(raw string) ([]int, error) {
	var ports []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("acquire: metricPorts entry %q is not a port number: %w", part, err)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// Scrape issues one concurrent GET per port to http://adminIP:port/metrics
// and concatenates the successful bodies with "\n" separators. Failed
// ports are reported, not fatal: a dead sidecar must not blank out the
// metrics of its siblings.
func (s *SidecarScraper) Scrape(ctx context.Context, adminIP string, ports []int) (string, []ScrapeError) {
	bodies := make([]string, len(ports))
	errs := make([]error, len(ports))

	g, gctx := errgroup.WithContext(ctx)
	for i, port := range ports {
		i, port := i, port
		g.Go(func() error {
			url := fmt.Sprintf("http://%s:%d/metrics", adminIP, port)
			body, err := s.Getter.HTTPGet(gctx, url)
			if err != nil {
				errs[i] = err
				return nil
			}
			bodies[i] = body
			return nil
		})
	}
	_ = g.Wait() // per-port errors are captured in errs, not propagated

	var scrapeErrs []ScrapeError
	var successful []string
	for i, body := range bodies {
		if errs[i] != nil {
			scrapeErrs = append(scrapeErrs, ScrapeError{Port: ports[i], Err: errs[i]})
			continue
		}
		successful = append(successful, body)
	}
	return strings.Join(successful, "\n"), scrapeErrs
}
