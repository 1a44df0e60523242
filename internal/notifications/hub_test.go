package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterLimits(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(7, nil)
	assert.ErrorIs(t, err, ErrUserFull)

	for i := 0; i < maxConnsPerUser+3; i++ {
		_, err := hub.Register(0, nil)
		require.NoError(t, err, "anonymous clients are not capped per user")
	}
	assert.Equal(t, 2*maxConnsPerUser+3, hub.Count())

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.Count())
	_, err = hub.Register(1, nil)
	assert.ErrorIs(t, err, ErrHubShutdown)
}

func TestHub_UnregisterFreesUserSlot(t *testing.T) {
	hub := NewHub()

	clients := make([]*Client, maxConnsPerUser)
	for i := range clients {
		c, err := hub.Register(3, nil)
		require.NoError(t, err)
		clients[i] = c
	}
	hub.UnregisterClient(clients[0])
	hub.UnregisterClient(clients[0])

	_, err := hub.Register(3, nil)
	assert.NoError(t, err)
	assert.Equal(t, maxConnsPerUser, hub.Count())
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(0, nil)
	require.NoError(t, err)

	hub.BroadcastAll(`{"type":"vote_updated"}`)

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"vote_updated"}`, string(msg))
		default:
			t.Fatal("expected a queued message")
		}
	}
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		c.TrySend([]byte("x"))
	}
	c.TrySend([]byte("overflow"))
	assert.Len(t, c.Send, sendBuffer)

	close(c.Send)
	assert.NotPanics(t, func() { c.TrySend([]byte("after close")) })
}

func TestHub_StartWiringForwardsVotes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	c, err := hub.Register(0, nil)
	require.NoError(t, err)

	require.NoError(t, notifier.PublishVote(ctx, "answer", 12, -3))

	var got []byte
	assert.Eventually(t, func() bool {
		select {
		case got = <-c.Send:
			return true
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	var event Event
	require.NoError(t, json.Unmarshal(got, &event))
	assert.Equal(t, Event{Type: EventVoteUpdated, Payload: VotePayload{Target: "answer", ID: 12, Likes: -3}}, event)
}
