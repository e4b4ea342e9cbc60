package server

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubKeepsLatestFrames(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	for i := 0; i < replayLimit+5; i++ {
		hub.BroadcastMessage(ctx, ServerMessage{Type: MsgBatchStarted, BatchID: fmt.Sprint(i)})
	}
	cancel()
	<-hub.stopped

	require.Len(t, hub.replay, replayLimit)
	var first ServerMessage
	require.NoError(t, json.Unmarshal(hub.replay[0], &first))
	assert.Equal(t, "5", first.BatchID)
}

func TestStoppedHubNeverBlocks(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.stopped

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.BroadcastMessage(context.Background(), NewErrorMessage("late", "after shutdown"))
		assert.False(t, hub.Join(NewSpectator(hub, nil)))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub blocked after shutdown")
	}
	assert.Zero(t, hub.SpectatorCount())
}

func TestSendIgnoresUnknownSpectators(t *testing.T) {
	hub := NewHub()
	s := NewSpectator(hub, nil)
	hub.Send(s, NewErrorMessage("x", "y"))
	assert.Empty(t, s.send)
}
