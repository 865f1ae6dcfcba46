// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"bytes"
	"context"
	"os/exec"
)

// NtpqExecer shells out to ntpq(1M), the host's NTP query tool (spec §4.3,
// §6). Unlike the other collaborators in this package, NtpqExec returns
// stderr even on success: the NTP acquisition module (app/domain/acquire)
// must distinguish the connection-refused sentinel from other failures by
// inspecting stderr text, not just the error return.
type NtpqExecer struct{}

// NewNtpqExecer constructs an NtpqExecer using os/exec.
func NewNtpqExecer() *NtpqExecer { return &NtpqExecer{} }

// NtpqExec runs `ntpq <args...>` and returns stdout and stderr
// independently. A nonzero exit is reported as err, but stderr is still
// returned so callers can check it for the connection-refused sentinel.
func (n *NtpqExecer) NtpqExec(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, "ntpq", args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	return outBuf.String(), errBuf.String(), runErr
}
