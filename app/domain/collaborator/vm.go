// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

// vmadmRecord is the subset of `vmadm get`'s JSON output the zone registry
// needs; vmadm has no field-projection flag, so VMLoad always fetches the
// whole record and extracts what it wants.
type vmadmRecord struct {
	OwnerUUID        string            `json:"owner_uuid"`
	CustomerMetadata map[string]string `json:"customer_metadata"`
	Tags             map[string]string `json:"tags"`
	Nics             []struct {
		IP      string `json:"ip"`
		Primary bool   `json:"primary"`
		Nic     string `json:"nic_tag"`
	} `json:"nics"`
}

// VMLoader shells out to vmadm(1M) get, the host's VM metadata store (spec
// §4.3, §6).
type VMLoader struct {
	Exec Execer
}

// NewVMLoader constructs a VMLoader using os/exec.
func NewVMLoader() *VMLoader {
	return &VMLoader{Exec: ExecCommand}
}

// VMLoad runs `vmadm get <uuid>` and decodes the fields zone.Registry
// needs to decide core-zone status and sidecar placement. fields is
// accepted for interface symmetry with other collaborators but unused:
// vmadm's JSON output cannot be narrowed server-side.
func (v *VMLoader) VMLoad(ctx context.Context, uuid string, _ []string) (zone.VMInfo, error) {
	out, err := v.Exec(ctx, "vmadm", "get", uuid)
	if err != nil {
		return zone.VMInfo{}, errors.Wrapf(err, "vmadm get %s", uuid)
	}

	var rec vmadmRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		return zone.VMInfo{}, errors.Wrapf(err, "vmadm get %s: decode json", uuid)
	}

	nics := make([]zone.Nic, 0, len(rec.Nics))
	for _, n := range rec.Nics {
		nics = append(nics, zone.Nic{IP: n.IP, Primary: n.Primary, Nic: n.Nic})
	}

	return zone.VMInfo{
		CustomerMetadata: rec.CustomerMetadata,
		Nics:             nics,
		OwnerUUID:        rec.OwnerUUID,
		Tags:             rec.Tags,
	}, nil
}
