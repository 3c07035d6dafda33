package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbistro/ordering-platform/internal/model"
)

// The overlap queries splice their status filter from the model's active
// set; the placeholder count must track the argument count exactly.
func TestActiveStatusSetMatchesModel(t *testing.T) {
	placeholders, args := activeStatusSet()

	require.Equal(t, len(model.ActiveReservationStatuses), len(args))
	assert.Equal(t, len(args), strings.Count(placeholders, "?"))
	assert.False(t, strings.HasSuffix(placeholders, ","))

	for i, s := range model.ActiveReservationStatuses {
		assert.Equal(t, s, args[i])
	}
	assert.Contains(t, args, model.ReservationPending)
	assert.Contains(t, args, model.ReservationConfirmed)
	assert.NotContains(t, args, model.ReservationCancelled)
	assert.NotContains(t, args, model.ReservationCompleted)
}
