package realtime

import (
	"context"
	"sync"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"
)

// プロセス内の通知（memory backend用）
type MemoryFeed struct {
	mu   sync.RWMutex
	subs map[string]map[*subscription]struct{}
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: map[string]map[*subscription]struct{}{}}
}

func (f *MemoryFeed) Subscribe(ctx context.Context, shipmentID string) (repo.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := newSubscription(ctx, shipmentID)

	f.mu.Lock()
	if f.subs[shipmentID] == nil {
		f.subs[shipmentID] = map[*subscription]struct{}{}
	}
	f.subs[shipmentID][s] = struct{}{}
	f.mu.Unlock()

	s.release = func() error {
		f.mu.Lock()
		delete(f.subs[shipmentID], s)
		if len(f.subs[shipmentID]) == 0 {
			delete(f.subs, shipmentID)
		}
		f.mu.Unlock()
		return nil
	}

	//ctxが切れたら閉じる
	go func() {
		<-s.ctx.Done()
		f.mu.Lock()
		delete(f.subs[shipmentID], s)
		f.mu.Unlock()
		s.finish()
	}()
	return s, nil
}

// 購読者へ配る。バッファが埋まっている購読者には届かない
func (f *MemoryFeed) Publish(_ context.Context, c model.ShipmentChange) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for s := range f.subs[c.ShipmentID()] {
		select {
		case <-s.ctx.Done():
		case s.ch <- c:
		default:
		}
	}
	return nil
}

var _ repo.ChangeFeed = (*MemoryFeed)(nil)
