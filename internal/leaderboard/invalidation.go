package leaderboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"prompt_badges/internal/logger"
)

// InvalidationChannel carries cache invalidations between replicas.
const InvalidationChannel = "leaderboard:invalidate"

type localInvalidator interface {
	Invalidate()
}

// Broadcaster clears the local leaderboard cache and tells the other
// replicas to do the same. With a nil client it only clears locally; a nil
// local only publishes (used by one-off jobs with no cache of their own).
type Broadcaster struct {
	client   *redis.Client
	local    localInvalidator
	instance string
}

func NewBroadcaster(client *redis.Client, local localInvalidator) *Broadcaster {
	return &Broadcaster{
		client:   client,
		local:    local,
		instance: uuid.NewString(),
	}
}

// Invalidate is called after every applied badge write.
func (b *Broadcaster) Invalidate() {
	if b.local != nil {
		b.local.Invalidate()
	}
	if b.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, InvalidationChannel, b.instance).Err(); err != nil {
		// peers fall back to the TTL
		logger.Warn("publish leaderboard invalidation failed", "error", err)
	}
}

// Listen applies invalidations published by other replicas until ctx is done.
func (b *Broadcaster) Listen(ctx context.Context) {
	if b.client == nil {
		return
	}

	sub := b.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload == b.instance {
				continue
			}
			if b.local != nil {
				b.local.Invalidate()
			}
			logger.Debug("leaderboard cache invalidated by peer", "peer", msg.Payload)
		}
	}
}
