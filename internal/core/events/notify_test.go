package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/models"
)

func TestPublishRoutesByMap(t *testing.T) {
	b := bus.New()
	var got []Envelope
	_, err := b.SubscribeTopic(MapTopic(1), bus.AnyType, func(e bus.Event) error {
		got = append(got, NewEnvelope(e))
		return nil
	})
	require.NoError(t, err)

	guid := models.NewGUID()
	require.NoError(t, Publish(b, 1, guid, ForceMoveRoot{GUID: guid, Flags: RootFlagCanRotate}))
	require.NoError(t, Publish(b, 2, guid, ForceMoveUnroot{GUID: guid}))

	require.Len(t, got, 1)
	assert.Equal(t, TypeForceMoveRoot, got[0].Type)
	assert.Equal(t, guid.String(), got[0].Source)
	assert.Equal(t, ForceMoveRoot{GUID: guid, Flags: 2}, got[0].Data)
}

func TestPassengerChangeType(t *testing.T) {
	assert.Equal(t, TypePassengerBoarded, PassengerChange{Boarded: true}.NotificationType())
	assert.Equal(t, TypePassengerLeft, PassengerChange{}.NotificationType())
	assert.Equal(t, "map:571", MapTopic(571))
}
