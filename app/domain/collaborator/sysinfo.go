// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
)

// sysinfoDocument is the subset of sysinfo(1M)'s JSON output the agent
// reads to label its own self-identifying metrics.
type sysinfoDocument struct {
	UUID           string `json:"UUID"`
	DatacenterName string `json:"Datacenter Name"`
}

// SysinfoReaderExec shells out to sysinfo(1M), the host's identity tool
// (spec §4.3, §6).
type SysinfoReaderExec struct {
	Exec Execer
}

// NewSysinfoReader constructs a SysinfoReaderExec using os/exec.
func NewSysinfoReader() *SysinfoReaderExec {
	return &SysinfoReaderExec{Exec: ExecCommand}
}

// Sysinfo runs `sysinfo` and decodes the host's UUID and datacenter name.
func (s *SysinfoReaderExec) Sysinfo(ctx context.Context) (acquire.SysinfoResult, error) {
	out, err := s.Exec(ctx, "sysinfo")
	if err != nil {
		return acquire.SysinfoResult{}, errors.Wrap(err, "sysinfo: exec")
	}

	var doc sysinfoDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		return acquire.SysinfoResult{}, errors.Wrap(err, "sysinfo: decode json")
	}
	return acquire.SysinfoResult{UUID: doc.UUID, DatacenterName: doc.DatacenterName}, nil
}
