// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package collaborator

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// HTTPGetter fetches a sidecar's /metrics body over plain HTTP (spec §4.3,
// §6). Sidecars live on the admin network inside the same physical host,
// so a short fixed timeout is enough to keep one dead sidecar from
// stalling a request.
type HTTPGetter struct {
	Client *http.Client
}

// NewHTTPGetter constructs an HTTPGetter with a conservative per-request
// timeout; the caller's context still governs overall cancellation.
func NewHTTPGetter() *HTTPGetter {
	return &HTTPGetter{Client: &http.Client{Timeout: 10 * time.Second}}
}

// HTTPGet issues a GET to url and returns the response body as a string.
// A non-2xx status is reported as an error.
func (h *HTTPGetter) HTTPGet(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "http: new request")
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "http: do")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "http: read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("http: %s: status %d", url, resp.StatusCode)
	}
	return string(body), nil
}
