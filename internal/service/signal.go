package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/lienworks/lienos/internal/domain"
)

// SignalService fans alert events out to realtime subscribers over redis
// pub/sub. Channels are per tenant ("alerts:{tenant_id}").
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, event domain.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe streams events for one tenant until ctx is cancelled. The
// returned channel is closed on cancellation.
func (s *SignalService) Subscribe(ctx context.Context, tenantID string) <-chan domain.Event {
	out := make(chan domain.Event)

	sub := s.rdb.Subscribe(ctx, "alerts:"+tenantID)
	go func() {
		defer close(out)
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
				var event domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
