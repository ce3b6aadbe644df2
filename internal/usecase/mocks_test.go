package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	shipments repo.ShipmentRepository
	events    repo.ShipmentEventRepository
	audit     repo.AuditLogRepository
}

func (r *TxReposMock) Shipments() repo.ShipmentRepository           { return r.shipments }
func (r *TxReposMock) ShipmentEvents() repo.ShipmentEventRepository { return r.events }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository           { return r.audit }

// =====================
// Repository mocks
// =====================

type ShipmentRepoMock struct{ mock.Mock }

func (m *ShipmentRepoMock) List(ctx context.Context) ([]model.Shipment, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]model.Shipment)
	return s, args.Error(1)
}

func (m *ShipmentRepoMock) FindByID(ctx context.Context, id string) (model.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Shipment)
	return s, args.Error(1)
}

func (m *ShipmentRepoMock) UpdateStatus(ctx context.Context, id string, status model.ShipmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type EventRepoMock struct{ mock.Mock }

func (m *EventRepoMock) Create(ctx context.Context, ev model.ShipmentEvent) (model.ShipmentEvent, error) {
	args := m.Called(ctx, ev)
	out, _ := args.Get(0).(model.ShipmentEvent)
	return out, args.Error(1)
}

func (m *EventRepoMock) ListByShipmentID(ctx context.Context, id string) ([]model.ShipmentEvent, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).([]model.ShipmentEvent)
	return out, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]model.AuditLog)
	return out, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o model.ShippingOrder) (model.ShippingOrder, error) {
	args := m.Called(ctx, o)
	out, _ := args.Get(0).(model.ShippingOrder)
	return out, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.ShippingOrder, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]model.ShippingOrder)
	return out, args.Error(1)
}

type ProvisionerMock struct{ mock.Mock }

func (m *ProvisionerMock) CreateShipmentFromOrder(ctx context.Context, p repo.CreateShipmentParams) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type ProceduresMock struct{ mock.Mock }

func (m *ProceduresMock) VerifyTrackingNumber(ctx context.Context, n string) (repo.VerifyTrackingResult, error) {
	args := m.Called(ctx, n)
	out, _ := args.Get(0).(repo.VerifyTrackingResult)
	return out, args.Error(1)
}

func (m *ProceduresMock) GetShipmentEvents(ctx context.Context, token string) (repo.ShipmentEventsResult, error) {
	args := m.Called(ctx, token)
	out, _ := args.Get(0).(repo.ShipmentEventsResult)
	return out, args.Error(1)
}

type ChatRepoMock struct{ mock.Mock }

func (m *ChatRepoMock) Create(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	args := m.Called(ctx, msg)
	out, _ := args.Get(0).(model.ChatMessage)
	return out, args.Error(1)
}

func (m *ChatRepoMock) ListBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	out, _ := args.Get(0).([]model.ChatMessage)
	return out, args.Error(1)
}

type ContactRepoMock struct{ mock.Mock }

func (m *ContactRepoMock) Create(ctx context.Context, c model.ContactSubmission) (model.ContactSubmission, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.ContactSubmission)
	return out, args.Error(1)
}

// =====================
// Realtime fake
// =====================

type fakeSubscription struct {
	ch     chan model.ShipmentChange
	once   sync.Once
	closes int
	mu     sync.Mutex
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan model.ShipmentChange, 8)}
}

func (s *fakeSubscription) Changes() <-chan model.ShipmentChange { return s.ch }

func (s *fakeSubscription) Close() error {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
	return nil
}

type FeedMock struct{ mock.Mock }

func (m *FeedMock) Subscribe(ctx context.Context, shipmentID string) (repo.Subscription, error) {
	args := m.Called(ctx, shipmentID)
	s, _ := args.Get(0).(repo.Subscription)
	return s, args.Error(1)
}

// =====================
// Helpers
// =====================

var testNow = time.Date(2026, 1, 18, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
