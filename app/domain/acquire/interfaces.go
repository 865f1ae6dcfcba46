// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package acquire wraps the external data sources behind the collectors:
// zone enumeration, ZFS dataset usage, zpool stats, NTP peer state, and
// container sidecar scraping (spec §4.3). Each module takes a narrow
// collaborator interface (spec §6) so the concrete os/exec or net/http
// wiring lives outside this package.
package acquire

import "context"

// ZoneListing is one line of zone-listing output.
type ZoneListing struct {
	ZoneID int
	UUID   string
}

// ZoneLister enumerates the zones configured on the host.
type ZoneLister interface {
	ListZones(ctx context.Context) ([]ZoneListing, error)
}

// ZfsProperty is one property/value pair as zfs(1M) reports it, prior to
// any type coercion.
type ZfsProperty struct {
	Value string
}

// ZfsGetter reads dataset properties.
type ZfsGetter interface {
	ZfsGet(ctx context.Context, dataset string, properties []string) (map[string]ZfsProperty, error)
}

// PoolLister reads pool-level stats for every imported zpool.
type PoolLister interface {
	ZpoolList(ctx context.Context) (csv string, err error)
}

// NtpqExecer runs the NTP query tool with the given arguments and returns
// its stdout and stderr independently; stderr is examined for the
// connection-refused sentinel (spec §4.3).
type NtpqExecer interface {
	NtpqExec(ctx context.Context, args ...string) (stdout, stderr string, err error)
}

// HTTPGetter fetches a URL body, used for container sidecar scraping.
type HTTPGetter interface {
	HTTPGet(ctx context.Context, url string) (body string, err error)
}

// SysinfoResult is the subset of sysinfo(1M)'s output the agent labels its
// own self-identifying metrics with (spec §6).
type SysinfoResult struct {
	UUID           string
	DatacenterName string
}

// SysinfoReader reports the host's own identity.
type SysinfoReader interface {
	Sysinfo(ctx context.Context) (SysinfoResult, error)
}
