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

func TestZfsGetterParsesTabDelimitedOutput(t *testing.T) {
	out := "used\t1024\navailable\t2048\n"
	getter := &collaborator.ZfsGetter{Exec: fakeExec(out, nil)}

	props, err := getter.ZfsGet(context.Background(), "zones", []string{"used", "available"})
	require.NoError(t, err)
	assert.Equal(t, "1024", props["used"].Value)
	assert.Equal(t, "2048", props["available"].Value)
}

func TestZfsGetterPropagatesExecError(t *testing.T) {
	getter := &collaborator.ZfsGetter{Exec: fakeExec("", errors.New("boom"))}
	_, err := getter.ZfsGet(context.Background(), "zones", []string{"used"})
	assert.Error(t, err)
}

func TestPoolListerReturnsRawOutput(t *testing.T) {
	out := "zones\t100\t5%\t200\n"
	lister := &collaborator.PoolLister{Exec: fakeExec(out, nil)}

	csv, err := lister.ZpoolList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out, csv)
}

func TestPoolListerPropagatesExecError(t *testing.T) {
	lister := &collaborator.PoolLister{Exec: fakeExec("", errors.New("boom"))}
	_, err := lister.ZpoolList(context.Background())
	assert.Error(t, err)
}
