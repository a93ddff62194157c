package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KamilPietrzak/blogbuild/internal/config"
)

func TestNewPublisherDisabledByDefault(t *testing.T) {
	pub, err := NewPublisher(config.NotifyConfig{Subject: "blogbuild.builds"})
	require.NoError(t, err)
	require.IsType(t, NoopPublisher{}, pub)

	require.NoError(t, pub.PublishBuildCompleted(t.Context(), &Event{BuildID: "x"}))
	require.NoError(t, pub.Close())
}

func TestNewNATSPublisherRequiresURL(t *testing.T) {
	_, err := NewNATSPublisher(config.NotifyConfig{})
	require.ErrorIs(t, err, ErrNoURL)
}

func TestNewNATSPublisherUnreachableBroker(t *testing.T) {
	_, err := NewNATSPublisher(config.NotifyConfig{
		URL:     "nats://127.0.0.1:1",
		Subject: "blogbuild.builds",
	})
	require.Error(t, err)
}

func TestEventWireFormat(t *testing.T) {
	evt := Event{
		BuildID:        "b-1",
		Outcome:        "success",
		StartedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DurationMS:     1500,
		PagesRendered:  12,
		PagesConverted: 7,
		Revision:       "abc12345",
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, "b-1", decoded["build_id"])
	require.Equal(t, "success", decoded["outcome"])
	require.Equal(t, float64(1500), decoded["duration_ms"])
	require.Equal(t, float64(7), decoded["pages_converted"])
	require.NotContains(t, decoded, "error")
}
