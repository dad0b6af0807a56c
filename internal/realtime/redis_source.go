package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type subscribeClient interface {
	Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error)
	CartChannelKey(userID string) string
}

// RedisSource opens per-user streams over redis pub/sub.
type RedisSource struct {
	client subscribeClient
	logger *logger.Logger
}

// NewRedisSource builds a source over the shared redis client.
func NewRedisSource(client subscribeClient, logg *logger.Logger) (*RedisSource, error) {
	if client == nil {
		return nil, fmt.Errorf("subscribe client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RedisSource{client: client, logger: logg}, nil
}

// Open subscribes to the user's cart channel.
func (s *RedisSource) Open(ctx context.Context, userID string) (Stream, error) {
	pubsub, err := s.client.Subscribe(ctx, s.client.CartChannelKey(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe cart channel")
	}

	stream := &redisStream{pubsub: pubsub, events: make(chan Event, 16)}
	go stream.pump(s.logger)
	return stream, nil
}

type redisStream struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisStream) Events() <-chan Event {
	return s.events
}

func (s *redisStream) Close() error {
	return s.pubsub.Close()
}

func (s *redisStream) pump(logg *logger.Logger) {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			logg.Warn(logg.WithField(context.Background(), "payload", msg.Payload), "dropping malformed cart event")
			continue
		}
		s.events <- event
	}
}
