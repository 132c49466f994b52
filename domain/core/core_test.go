package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, id.IsEmpty())
		assert.False(t, seen[id], "duplicate ID generated")
		seen[id] = true
	}
}

func TestParseStudyID(t *testing.T) {
	id, err := ParseStudyID("study-1")
	require.NoError(t, err)
	assert.Equal(t, StudyID("study-1"), id)

	_, err = ParseStudyID("   ")
	assert.Error(t, err)
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	original := Timestamp(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Time().Equal(decoded.Time()))
}

func TestTimestampScan(t *testing.T) {
	now := time.Now().UTC()
	var ts Timestamp
	require.NoError(t, ts.Scan(now))
	assert.True(t, now.Equal(ts.Time()))

	assert.Error(t, ts.Scan("not a time"))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsValidationError(NewInvalidBoundsError("a", 2, 1)))
	assert.True(t, IsValidationError(NewConfigError("no_samples", "negative")))
	assert.False(t, IsValidationError(ErrAllSamplesFailed))

	assert.True(t, IsFatalError(ErrAllSamplesFailed))
	assert.False(t, IsFatalError(ErrInsufficientData))
}
