package realtime

import (
	"context"
	"fmt"

	repo "swiftlogix/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Postgres LISTEN/NOTIFY。購読ごとに1接続を持つ
type PgFeed struct {
	dsn     string
	channel string
	logger  *zap.Logger
}

func NewPgFeed(dsn, channel string, logger *zap.Logger) *PgFeed {
	return &PgFeed{dsn: dsn, channel: channel, logger: logger}
}

func (f *PgFeed) Subscribe(ctx context.Context, shipmentID string) (repo.Subscription, error) {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return nil, fmt.Errorf("pg listen connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("pg listen: %w", err)
	}

	s := newSubscription(ctx, shipmentID)
	s.release = func() error { return conn.Close(context.Background()) }

	go func() {
		defer s.finish()
		for {
			n, err := conn.WaitForNotification(s.ctx)
			if err != nil {
				if s.ctx.Err() == nil {
					f.logger.Warn("pg notification wait failed", zap.String("shipment_id", shipmentID), zap.Error(err))
				}
				return
			}
			c, err := DecodeChange([]byte(n.Payload))
			if err != nil {
				f.logger.Warn("skip malformed change", zap.String("channel", n.Channel), zap.Error(err))
				continue
			}
			if !s.deliver(c) {
				return
			}
		}
	}()

	return s, nil
}

var _ repo.ChangeFeed = (*PgFeed)(nil)
