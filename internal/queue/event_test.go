package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The JSON keys of the reservation fact are a wire contract shared with
// every consumer of the queue; renaming a field here is a breaking change.
func TestReservationCreatedEventWireFormat(t *testing.T) {
	ev := ReservationCreatedEvent{
		ReservationID: 42,
		TableID:       7,
		PartySize:     4,
		CustomerName:  "Ada",
		CustomerPhone: "555-0100",
		StartTime:     time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"reservationId", "tableId", "partySize", "customerName", "customerPhone", "startTime"} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, float64(42), m["reservationId"])
	assert.Equal(t, "2026-09-01T19:00:00Z", m["startTime"])
}
