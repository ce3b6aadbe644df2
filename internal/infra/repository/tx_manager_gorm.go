package repository

import (
	"context"

	repo "swiftlogix/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	shipments repo.ShipmentRepository
	events    repo.ShipmentEventRepository
	audit     repo.AuditLogRepository
}

func (r *txReposGorm) Shipments() repo.ShipmentRepository           { return r.shipments }
func (r *txReposGorm) ShipmentEvents() repo.ShipmentEventRepository { return r.events }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository           { return r.audit }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			shipments: NewShipmentGormRepository(tx),
			events:    NewShipmentEventGormRepository(tx),
			audit:     NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
