// Package notifications delivers realtime score updates over Redis pub/sub
// and websockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"askme/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// VotesChannel carries one message per applied vote.
const VotesChannel = "askme:votes"

// EventVoteUpdated is the type of messages published on VotesChannel.
const EventVoteUpdated = "vote_updated"

// VotePayload describes the new score of a voted item.
type VotePayload struct {
	Target string `json:"target"`
	ID     uint   `json:"id"`
	Likes  int    `json:"likes"`
}

// Event is the envelope sent to websocket clients.
type Event struct {
	Type    string      `json:"type"`
	Payload VotePayload `json:"payload"`
}

// Notifier publishes events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishVote announces the new net score of a question or answer.
func (n *Notifier) PublishVote(ctx context.Context, target string, id uint, likes int) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(Event{
		Type:    EventVoteUpdated,
		Payload: VotePayload{Target: target, ID: id, Likes: likes},
	})
	if err != nil {
		return fmt.Errorf("marshal vote event: %w", err)
	}
	return n.rdb.Publish(ctx, VotesChannel, payload).Err()
}

// StartVoteSubscriber subscribes to VotesChannel and calls onMessage for each
// payload until ctx is cancelled. The subscription is confirmed before it returns.
func (n *Notifier) StartVoteSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, VotesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", VotesChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in vote subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
