package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicator_Observe(t *testing.T) {
	d := NewDeduplicator()

	assert.True(t, d.Observe("FL-1"))
	assert.True(t, d.Observe("FL-2"))
	assert.False(t, d.Observe("FL-1"))
	assert.False(t, d.Observe("FL-1"))
	assert.True(t, d.Observe("FL-3"))
}

func TestDedupe(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		events := []Event{
			{GDACSID: "FL-1", FromDate: "2024-01-01T00:00:00"},
			{GDACSID: "FL-2"},
			{GDACSID: "FL-1", FromDate: "2024-02-01T00:00:00"},
			{GDACSID: "FL-3"},
			{GDACSID: "FL-2"},
		}

		out := Dedupe(events)
		require.Len(t, out, 3)
		assert.Equal(t, "FL-1", out[0].GDACSID)
		assert.Equal(t, "2024-01-01T00:00:00", out[0].FromDate)
		assert.Equal(t, "FL-2", out[1].GDACSID)
		assert.Equal(t, "FL-3", out[2].GDACSID)
	})

	t.Run("no duplicates passes through", func(t *testing.T) {
		events := []Event{{GDACSID: "FL-1"}, {GDACSID: "FL-2"}}
		assert.Equal(t, events, Dedupe(events))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Dedupe(nil))
	})
}
