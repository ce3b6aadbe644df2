package realtime

import (
	"context"
	"sync"

	"swiftlogix/internal/domain/model"
)

const subscriptionBuffer = 16

// feed共通の購読。loopがchを閉じたら終わり
type subscription struct {
	shipmentID string
	ch         chan model.ShipmentChange
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}

	closeOnce sync.Once
	closeErr  error
	release   func() error
}

func newSubscription(parent context.Context, shipmentID string) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{
		shipmentID: shipmentID,
		ch:         make(chan model.ShipmentChange, subscriptionBuffer),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (s *subscription) Changes() <-chan model.ShipmentChange { return s.ch }

// 止めてからloopの終了を待ち、接続を返す
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		if s.release != nil {
			s.closeErr = s.release()
		}
	})
	return s.closeErr
}

// 対象shipmentの変更だけ流す。止められたらfalse
func (s *subscription) deliver(c model.ShipmentChange) bool {
	if c.ShipmentID() != s.shipmentID {
		return true
	}
	select {
	case s.ch <- c:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// loopの最後に呼ぶ
func (s *subscription) finish() {
	close(s.ch)
	close(s.done)
}
