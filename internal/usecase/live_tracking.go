package usecase

import (
	"context"
	"errors"
	"sync"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"
)

var ErrTrackingClosed = errors.New("live tracking closed")

// 1画面分の追跡状態と購読。Closeまで購読を持つ
type LiveTracking struct {
	mu    sync.Mutex
	state TrackingResult
	sub   repo.Subscription

	closeOnce sync.Once
	closeErr  error
}

func newLiveTracking(initial TrackingResult, sub repo.Subscription) *LiveTracking {
	st := initial
	st.Events = sortEvents(initial.Events)
	return &LiveTracking{state: st, sub: sub}
}

// 今の状態のコピー
func (l *LiveTracking) Snapshot() TrackingResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneResult(l.state)
}

// 次の変更を待って反映し、反映後の状態を返す。
// 関係ない変更や重複は読み捨てて待ち続ける
func (l *LiveTracking) Next(ctx context.Context) (TrackingResult, error) {
	for {
		select {
		case <-ctx.Done():
			return TrackingResult{}, ctx.Err()
		case c, ok := <-l.sub.Changes():
			if !ok {
				return TrackingResult{}, ErrTrackingClosed
			}
			l.mu.Lock()
			changed := ApplyChange(&l.state, c)
			snap := cloneResult(l.state)
			l.mu.Unlock()
			if changed {
				return snap, nil
			}
		}
	}
}

// 何度呼んでもよい
func (l *LiveTracking) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.sub.Close()
	})
	return l.closeErr
}

// 変更を状態に反映する。変わったらtrue
func ApplyChange(st *TrackingResult, c model.ShipmentChange) bool {
	if c.ShipmentID() != st.Shipment.ID {
		return false
	}

	switch {
	case c.Event != nil && c.Type == model.ChangeInsert:
		for _, e := range st.Events {
			if e.ID == c.Event.ID {
				return false
			}
		}
		st.Events = sortEvents(append(st.Events, *c.Event))
		if c.Event.Status != st.Shipment.Status {
			st.Shipment.Status = c.Event.Status
		}
		return true

	case c.Shipment != nil && c.Type == model.ChangeUpdate:
		s := c.Shipment
		st.Shipment.Status = s.Status
		st.Shipment.EstimatedDelivery = s.EstimatedDelivery
		st.Shipment.ActualDelivery = s.ActualDelivery
		if !s.UpdatedAt.IsZero() {
			st.Shipment.UpdatedAt = s.UpdatedAt
		}
		return true
	}
	return false
}

func cloneResult(r TrackingResult) TrackingResult {
	out := r
	out.Events = make([]model.ShipmentEvent, len(r.Events))
	copy(out.Events, r.Events)
	return out
}
