// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"bufio"
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
)

// ZfsGetter shells out to zfs(1M) get, the host's dataset-property reader
// (spec §4.3, §6).
type ZfsGetter struct {
	Exec Execer
}

// NewZfsGetter constructs a ZfsGetter using os/exec.
func NewZfsGetter() *ZfsGetter {
	return &ZfsGetter{Exec: ExecCommand}
}

// ZfsGet invokes `zfs get -Hp -o property,value <properties> <dataset>`
// and returns the parsed property/value pairs.
func (z *ZfsGetter) ZfsGet(ctx context.Context, dataset string, properties []string) (map[string]acquire.ZfsProperty, error) {
	args := []string{"get", "-Hp", "-o", "property,value", strings.Join(properties, ","), dataset}
	out, err := z.Exec(ctx, "zfs", args...)
	if err != nil {
		return nil, errors.Wrap(err, "zfs: exec")
	}

	result := make(map[string]acquire.ZfsProperty, len(properties))
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			continue
		}
		result[fields[0]] = acquire.ZfsProperty{Value: strings.TrimSpace(fields[1])}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "zfs: scan output")
	}
	return result, nil
}

// PoolLister shells out to zpool(1M) list, the host's pool-listing
// utility (spec §4.3, §6).
type PoolLister struct {
	Exec Execer
}

// NewPoolLister constructs a PoolLister using os/exec.
func NewPoolLister() *PoolLister {
	return &PoolLister{Exec: ExecCommand}
}

// ZpoolList invokes `zpool list -Hp -o name,alloc,frag,size` and returns
// its tab-delimited rows verbatim for acquire.PoolStatsReader to parse.
func (p *PoolLister) ZpoolList(ctx context.Context) (string, error) {
	out, err := p.Exec(ctx, "zpool", "list", "-Hp", "-o", "name,alloc,frag,size")
	if err != nil {
		return "", errors.Wrap(err, "zpool: exec")
	}
	return out, nil
}
