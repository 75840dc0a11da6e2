// internal/util/util_test.go
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsError(t *testing.T) {
	wrapped := fmt.Errorf("update coupon 7: %w", ErrNotFound)

	assert.True(t, IsError(wrapped, ErrNotFound))
	assert.False(t, IsError(wrapped, ErrDuplicateCode))
	assert.False(t, IsError(nil, ErrNotFound))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Str("code", "SPRING10").Msg("kept")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "coupon-manager", line["service"])
	assert.Equal(t, "SPRING10", line["code"])
	assert.Contains(t, line, "time")
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "verbose")

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}
