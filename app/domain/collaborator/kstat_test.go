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
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
)

func fakeExec(stdout string, err error) collaborator.Execer {
	return func(_ context.Context, _ string, _ ...string) (string, error) {
		return stdout, err
	}
}

func TestKstatReaderParsesAndGroupsLines(t *testing.T) {
	out := "cpu:0:sys:idle\t42\n" +
		"cpu:0:sys:crtime\t100\n" +
		"cpu:0:sys:snaptime\t200.5\n" +
		"\n"
	reader := &collaborator.KstatReader{Exec: fakeExec(out, nil)}

	records, err := reader.Read(context.Background(), kstat.Query{Module: "cpu"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cpu", records[0].Module)
	assert.Equal(t, 0, records[0].Instance)
	assert.Equal(t, "sys", records[0].Name)
	assert.Equal(t, int64(42), records[0].Data["idle"])
	assert.Equal(t, int64(100), records[0].Crtime)
	assert.Equal(t, int64(200), records[0].Snaptime)
}

func TestKstatReaderSkipsMalformedLines(t *testing.T) {
	out := "garbage line with no tab\n" +
		"cpu:not-a-number:sys:idle\t1\n" +
		"cpu:0:sys:idle\t7\n"
	reader := &collaborator.KstatReader{Exec: fakeExec(out, nil)}

	records, err := reader.Read(context.Background(), kstat.Query{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].Data["idle"])
}

func TestKstatReaderPropagatesExecError(t *testing.T) {
	reader := &collaborator.KstatReader{Exec: fakeExec("", errors.New("boom"))}
	_, err := reader.Read(context.Background(), kstat.Query{})
	assert.Error(t, err)
}
