package messaging_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"event-service/internal/logger"
	"event-service/internal/messaging"
	"event-service/testing/testnats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisher_Shared(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	publisher, err := messaging.NewNATSPublisher(natsContainer.URL, "campus", logger.Discard())
	require.NoError(t, err)
	defer publisher.Close()

	t.Run("PublishesEnvelopeOnPrefixedSubject", func(t *testing.T) {
		sub := natsContainer.Subscribe(t, "campus.>")

		err := publisher.Publish(context.Background(), messaging.AttendanceCheckedIn, map[string]int{"event_id": 5})
		require.NoError(t, err)

		msg, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, "campus.attendance.checked_in", msg.Subject)

		var env messaging.Envelope
		require.NoError(t, json.Unmarshal(msg.Data, &env))
		assert.Equal(t, "attendance.checked_in", env.Type)
		assert.NotEmpty(t, env.ID)
		assert.Equal(t, map[string]any{"event_id": float64(5)}, env.Data)
	})

	t.Run("Subject", func(t *testing.T) {
		assert.Equal(t, "campus.event.created", publisher.Subject(messaging.EventCreated))
	})
}
