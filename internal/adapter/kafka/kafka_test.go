package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitx/enviro-engine/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	event := domain.LayerEvent{
		Layer:       "mod11a1",
		Product:     "MOD11A1",
		Granule:     "MOD11A1.A2026242.h25v06.061.hdf",
		PublishedAt: time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("mod11a1"), msg.Key)

	var decoded domain.LayerEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "published_at", msg.Headers[0].Key)
	assert.Equal(t, "2026-08-30T12:00:00Z", string(msg.Headers[0].Value))
}

func TestSerializeToMessage_OmitsEmptyGranule(t *testing.T) {
	msg, err := serializeToMessage(domain.LayerEvent{
		Layer:       "elevation",
		PublishedAt: time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "granule")
	assert.NotContains(t, string(msg.Value), "product")
}
