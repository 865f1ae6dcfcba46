// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
)

// ZoneLister shells out to zoneadm(1M) list -p, the host's zone-listing
// utility (spec §4.3, §6).
type ZoneLister struct {
	Exec Execer
}

// NewZoneLister constructs a ZoneLister using os/exec.
func NewZoneLister() *ZoneLister {
	return &ZoneLister{Exec: ExecCommand}
}

// ListZones parses zoneadm(1M)'s colon-delimited "-p" output:
// zoneid:zonename:state:zonepath:uuid:brand:ip-type[:...].
func (z *ZoneLister) ListZones(ctx context.Context) ([]acquire.ZoneListing, error) {
	out, err := z.Exec(ctx, "zoneadm", "list", "-p", "-c")
	if err != nil {
		return nil, errors.Wrap(err, "zoneadm: exec")
	}

	var zones []acquire.ZoneListing
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 5 {
			continue
		}
		zoneid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		uuid := fields[4]
		if zoneid == 0 {
			uuid = "global"
		}
		zones = append(zones, acquire.ZoneListing{ZoneID: zoneid, UUID: uuid})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "zoneadm: scan output")
	}
	return zones, nil
}
