package realtime

import (
	"context"
	"fmt"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis Pub/Sub。チャンネルはprefix + shipment id
type RedisFeed struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisFeed(client *redis.Client, prefix string, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{client: client, prefix: prefix, logger: logger}
}

func (f *RedisFeed) Channel(shipmentID string) string {
	return f.prefix + shipmentID
}

func (f *RedisFeed) Subscribe(ctx context.Context, shipmentID string) (repo.Subscription, error) {
	ps := f.client.Subscribe(ctx, f.Channel(shipmentID))
	//購読が確定するまで待つ
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	s := newSubscription(ctx, shipmentID)
	s.release = ps.Close

	msgs := ps.Channel()
	go func() {
		defer s.finish()
		for {
			select {
			case <-s.ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				c, err := DecodeChange([]byte(m.Payload))
				if err != nil {
					f.logger.Warn("skip malformed change", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				if !s.deliver(c) {
					return
				}
			}
		}
	}()

	return s, nil
}

func (f *RedisFeed) Publish(ctx context.Context, c model.ShipmentChange) error {
	payload, err := EncodeChange(c)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.Channel(c.ShipmentID()), payload).Err()
}

var _ repo.ChangeFeed = (*RedisFeed)(nil)
