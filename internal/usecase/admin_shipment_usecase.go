package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

const MsgLocationRequired = "Location is required"

type AdminShipmentUsecase struct {
	tx        repo.TransactionManager
	shipments repo.ShipmentRepository
	events    repo.ShipmentEventRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
	logger    *zap.Logger
}

func NewAdminShipmentUsecase(
	tx repo.TransactionManager,
	shipments repo.ShipmentRepository,
	events repo.ShipmentEventRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
	logger *zap.Logger,
) *AdminShipmentUsecase {
	return &AdminShipmentUsecase{tx: tx, shipments: shipments, events: events, auditRepo: auditRepo, clock: clock, logger: logger}
}

type ShipmentStats struct {
	Total     int `json:"total"`
	InTransit int `json:"in_transit"`
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
}

type AdminUpdateShipmentStatusInput struct {
	Status string
}

type AdminAppendEventInput struct {
	Status      string
	Location    string
	Description string
}

// 一覧（新しい順）。qは追跡番号・差出人・受取人・到着都市の部分一致
func (u *AdminShipmentUsecase) List(ctx context.Context, q string) ([]model.Shipment, error) {
	all, err := u.shipments.List(ctx)
	if err != nil {
		u.logger.Error("list shipments failed", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all, nil
	}
	out := make([]model.Shipment, 0, len(all))
	for _, s := range all {
		if shipmentMatches(s, q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (u *AdminShipmentUsecase) Stats(ctx context.Context) (ShipmentStats, error) {
	all, err := u.shipments.List(ctx)
	if err != nil {
		u.logger.Error("list shipments failed", zap.Error(err))
		return ShipmentStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	st := ShipmentStats{Total: len(all)}
	for _, s := range all {
		switch s.Status {
		case model.ShipmentStatusInTransit:
			st.InTransit++
		case model.ShipmentStatusPending:
			st.Pending++
		case model.ShipmentStatusDelivered:
			st.Delivered++
		}
	}
	return st, nil
}

// 履歴（古い順）
func (u *AdminShipmentUsecase) Events(ctx context.Context, shipmentID string) ([]model.ShipmentEvent, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := u.shipments.FindByID(ctx, shipmentID); err != nil {
		return nil, u.mapFindErr(err)
	}
	events, err := u.events.ListByShipmentID(ctx, shipmentID)
	if err != nil {
		u.logger.Error("list shipment events failed", zap.String("shipment_id", shipmentID), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sortEvents(events), nil
}

const auditTrailLimit = 50

// shipmentに対する管理者操作の履歴（新しい順）
func (u *AdminShipmentUsecase) AuditTrail(ctx context.Context, shipmentID string) ([]model.AuditLog, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := u.shipments.FindByID(ctx, shipmentID); err != nil {
		return nil, u.mapFindErr(err)
	}
	rt := model.AuditResourceShipment
	logs, err := u.auditRepo.List(ctx, repo.AuditLogFilter{
		ResourceType: &rt,
		ResourceID:   &shipmentID,
		Limit:        auditTrailLimit,
	})
	if err != nil {
		u.logger.Error("list audit logs failed", zap.String("shipment_id", shipmentID), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// ステータスだけ変える
func (u *AdminShipmentUsecase) UpdateStatus(ctx context.Context, actorAdminUserID, shipmentID string, in AdminUpdateShipmentStatusInput) (model.Shipment, error) {
	if strings.TrimSpace(actorAdminUserID) == "" {
		return model.Shipment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(shipmentID) == "" {
		return model.Shipment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	newStatus := model.ShipmentStatus(strings.TrimSpace(in.Status))
	if !newStatus.Valid() {
		return model.Shipment{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.Shipment
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Shipments().FindByID(ctx, shipmentID)
		if err != nil {
			return u.mapFindErr(err)
		}
		//同じなら何もしない
		if s.Status == newStatus {
			out = s
			return nil
		}

		before := s.Status
		if err := r.Shipments().UpdateStatus(ctx, shipmentID, newStatus); err != nil {
			return u.mapWriteErr(err)
		}
		s.Status = newStatus
		out = s

		return u.writeAudit(ctx, r, actorAdminUserID, model.AuditActionUpdateShipmentStatus, shipmentID, statusJSON(before), statusJSON(newStatus))
	})
	if err != nil {
		return model.Shipment{}, err
	}
	return out, nil
}

// 履歴を1件追加して、shipmentのステータスも合わせる（同じTx）
func (u *AdminShipmentUsecase) AppendEvent(ctx context.Context, actorAdminUserID, shipmentID string, in AdminAppendEventInput) (model.ShipmentEvent, error) {
	if strings.TrimSpace(actorAdminUserID) == "" {
		return model.ShipmentEvent{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(shipmentID) == "" {
		return model.ShipmentEvent{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	status := model.ShipmentStatus(strings.TrimSpace(in.Status))
	if !status.Valid() {
		return model.ShipmentEvent{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return model.ShipmentEvent{}, NewHTTPError(http.StatusBadRequest, MsgLocationRequired)
	}

	var out model.ShipmentEvent
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Shipments().FindByID(ctx, shipmentID)
		if err != nil {
			return u.mapFindErr(err)
		}

		ev, err := r.ShipmentEvents().Create(ctx, model.ShipmentEvent{
			ShipmentID:  shipmentID,
			Status:      status,
			Location:    location,
			Description: optionalString(in.Description),
			OccurredAt:  u.clock.Now(),
		})
		if err != nil {
			return u.mapWriteErr(err)
		}

		if err := r.Shipments().UpdateStatus(ctx, shipmentID, status); err != nil {
			return u.mapWriteErr(err)
		}
		out = ev

		return u.writeAudit(ctx, r, actorAdminUserID, model.AuditActionAppendShipmentEvent, shipmentID, statusJSON(s.Status), statusJSON(status))
	})
	if err != nil {
		return model.ShipmentEvent{}, err
	}
	return out, nil
}

func (u *AdminShipmentUsecase) writeAudit(ctx context.Context, r repo.TxRepos, actor string, action model.AuditAction, shipmentID, before, after string) error {
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor,
		Action:       action,
		ResourceType: model.AuditResourceShipment,
		ResourceID:   shipmentID,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		u.logger.Error("audit log write failed", zap.String("shipment_id", shipmentID), zap.Error(err))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminShipmentUsecase) mapFindErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	u.logger.Error("find shipment failed", zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func (u *AdminShipmentUsecase) mapWriteErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	u.logger.Error("shipment write failed", zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "Failed to update shipment. Please try again.")
}

func shipmentMatches(s model.Shipment, lowerQ string) bool {
	fields := []string{s.TrackingNumber, s.DestinationCity}
	if s.SenderName != nil {
		fields = append(fields, *s.SenderName)
	}
	if s.RecipientName != nil {
		fields = append(fields, *s.RecipientName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQ) {
			return true
		}
	}
	return false
}
