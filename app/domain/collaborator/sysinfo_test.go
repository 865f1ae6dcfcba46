// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/collaborator"
)

func TestSysinfoReaderDecodesDocument(t *testing.T) {
	out := `{"UUID": "11111111-2222-3333-4444-555555555555", "Datacenter Name": "us-east-1"}`
	reader := &collaborator.SysinfoReaderExec{Exec: fakeExec(out, nil)}

	result, err := reader.Sysinfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", result.UUID)
	assert.Equal(t, "us-east-1", result.DatacenterName)
}

func TestSysinfoReaderPropagatesExecError(t *testing.T) {
	reader := &collaborator.SysinfoReaderExec{Exec: fakeExec("", errors.New("boom"))}
	_, err := reader.Sysinfo(context.Background())
	assert.Error(t, err)
}
