// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyent/triton-cmon-agent/app/logging"
)

func TestNewLoggerAppliesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(
		logging.WithLevel("warn"),
		logging.WithSink(&buf),
	)
	require.NoError(t, err)

	logger.Info().Msg("should be filtered")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNewLoggerAppliesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(
		logging.WithSink(&buf),
		logging.WithAttrs(func(c zerolog.Context) zerolog.Context {
			return c.Str("component", "cmon-agent")
		}),
	)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"cmon-agent"`)
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(
		logging.WithLevel("not-a-level"),
		logging.WithSink(&buf),
	)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
