// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/microblog/internal/platform/logger"
)

/*
TestNew_JSON verifies structured output and the app attribute.
*/
func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.FormatJSON, false)

	log.Info("migration_started", "steps", 2)
	log.Debug("migration_step_planned")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "migration_started", record["msg"])
	assert.Equal(t, "microblog-migrate", record["app"])
	assert.EqualValues(t, 2, record["steps"])
}

/*
TestNew_Debug enables debug records only when requested.
*/
func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.FormatText, true)

	log.Debug("migration_step_planned")
	assert.Contains(t, buf.String(), "migration_step_planned")
}
