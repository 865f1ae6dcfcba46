// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/domain/collaborator"
)

func TestHTTPGetterReturnsBodyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metric_one 1\n"))
	}))
	defer srv.Close()

	getter := collaborator.NewHTTPGetter()
	body, err := getter.HTTPGet(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "metric_one 1\n", body)
}

func TestHTTPGetterErrorsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	getter := collaborator.NewHTTPGetter()
	_, err := getter.HTTPGet(context.Background(), srv.URL)
	assert.Error(t, err)
}
