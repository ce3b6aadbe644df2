package usecase

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

const (
	MsgTrackingNumberRequired = "Please enter a tracking number"
	MsgTrackingNotFound       = "No shipment found with this tracking number. Please check and try again."
	MsgTrackingFailed         = "An error occurred while tracking. Please try again."

	maxTrackingNumberLen = 64
)

var trackingNumberChars = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

type TrackingUsecase struct {
	procs  repo.TrackingProcedures
	feed   repo.ChangeFeed
	logger *zap.Logger
}

func NewTrackingUsecase(procs repo.TrackingProcedures, feed repo.ChangeFeed, logger *zap.Logger) *TrackingUsecase {
	return &TrackingUsecase{procs: procs, feed: feed, logger: logger}
}

// 追跡結果。eventsはoccurred_atの古い順
type TrackingResult struct {
	Shipment     model.Shipment        `json:"shipment"`
	Events       []model.ShipmentEvent `json:"events"`
	SessionToken string                `json:"session_token"`
}

// 前後の空白を落として形式チェック。backendには投げない
func NormalizeTrackingNumber(raw string) (string, error) {
	n := strings.TrimSpace(raw)
	if n == "" {
		return "", NewHTTPError(http.StatusBadRequest, MsgTrackingNumberRequired)
	}
	if len(n) > maxTrackingNumberLen || !trackingNumberChars.MatchString(n) {
		return "", NewHTTPError(http.StatusBadRequest, "invalid tracking number")
	}
	return n, nil
}

// 追跡番号 → verify → events の2段階
func (u *TrackingUsecase) Track(ctx context.Context, raw string) (TrackingResult, error) {
	number, err := NormalizeTrackingNumber(raw)
	if err != nil {
		return TrackingResult{}, err
	}

	verified, err := u.procs.VerifyTrackingNumber(ctx, number)
	if err != nil {
		u.logger.Error("verify tracking number failed", zap.String("tracking_number", number), zap.Error(err))
		return TrackingResult{}, NewHTTPError(http.StatusBadGateway, MsgTrackingFailed)
	}
	if !verified.Success || verified.Shipment == nil {
		msg := strings.TrimSpace(verified.Error)
		if msg == "" {
			msg = MsgTrackingNotFound
		}
		return TrackingResult{}, NewHTTPError(http.StatusNotFound, msg)
	}

	events, err := u.RefreshEvents(ctx, verified.SessionToken)
	if err != nil {
		return TrackingResult{}, err
	}

	return TrackingResult{
		Shipment:     *verified.Shipment,
		Events:       events,
		SessionToken: verified.SessionToken,
	}, nil
}

// session tokenでeventsを読み直す。success=falseは空扱い
func (u *TrackingUsecase) RefreshEvents(ctx context.Context, sessionToken string) ([]model.ShipmentEvent, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "missing session token")
	}
	res, err := u.procs.GetShipmentEvents(ctx, sessionToken)
	if err != nil {
		u.logger.Error("get shipment events failed", zap.Error(err))
		return nil, NewHTTPError(http.StatusBadGateway, MsgTrackingFailed)
	}
	if !res.Success {
		u.logger.Info("shipment events unavailable", zap.String("reason", res.Error))
		return []model.ShipmentEvent{}, nil
	}
	return sortEvents(res.Events), nil
}

// shipmentの変更購読を開く。呼び出し側がCloseする。
// 購読してからeventsを読み直し、Trackとの間に入ったeventを取りこぼさない
func (u *TrackingUsecase) Follow(ctx context.Context, current TrackingResult) (*LiveTracking, error) {
	sub, err := u.feed.Subscribe(ctx, current.Shipment.ID)
	if err != nil {
		u.logger.Error("subscribe shipment changes failed", zap.String("shipment_id", current.Shipment.ID), zap.Error(err))
		return nil, NewHTTPError(http.StatusBadGateway, MsgTrackingFailed)
	}

	if current.SessionToken != "" {
		events, err := u.RefreshEvents(ctx, current.SessionToken)
		if err != nil {
			//購読は生きているので手元のeventsで続ける
			u.logger.Warn("reload events after subscribe failed", zap.String("shipment_id", current.Shipment.ID), zap.Error(err))
		} else {
			current.Events = mergeEvents(current.Events, events)
		}
	}
	return newLiveTracking(current, sub), nil
}

// idで重複を落として足す
func mergeEvents(have, fresh []model.ShipmentEvent) []model.ShipmentEvent {
	seen := make(map[string]struct{}, len(have))
	out := make([]model.ShipmentEvent, 0, len(have)+len(fresh))
	for _, e := range have {
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	for _, e := range fresh {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return sortEvents(out)
}

func sortEvents(events []model.ShipmentEvent) []model.ShipmentEvent {
	out := make([]model.ShipmentEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}
