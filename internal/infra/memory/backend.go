package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

const defaultTokenTTL = 30 * time.Minute

// 行の変更を外へ流す先（realtime.MemoryFeed / RedisFeed）
type Publisher interface {
	Publish(ctx context.Context, c model.ShipmentChange) error
}

type trackingToken struct {
	shipmentID string
	expiresAt  time.Time
}

type Backend struct {
	//書き込みの直列化（Txの間は他の書き込みを待たせる）
	txMu sync.Mutex
	mu   sync.RWMutex

	orders      []model.ShippingOrder
	shipments   map[string]model.Shipment
	events      map[string][]model.ShipmentEvent
	chats       map[string][]model.ChatMessage
	contacts    []model.ContactSubmission
	audit       []model.AuditLog
	nextAuditID int64
	roles       map[string]map[string]bool
	tokens      map[string]trackingToken

	publisher Publisher
	clock     func() time.Time
	intn      func(n int) int
	tokenTTL  time.Duration
	logger    *zap.Logger
}

type Option func(*Backend)

func WithPublisher(p Publisher) Option       { return func(b *Backend) { b.publisher = p } }
func WithClock(now func() time.Time) Option  { return func(b *Backend) { b.clock = now } }
func WithRandom(intn func(n int) int) Option { return func(b *Backend) { b.intn = intn } }
func WithTokenTTL(ttl time.Duration) Option  { return func(b *Backend) { b.tokenTTL = ttl } }
func WithLogger(logger *zap.Logger) Option   { return func(b *Backend) { b.logger = logger } }

func New(opts ...Option) *Backend {
	b := &Backend{
		shipments: map[string]model.Shipment{},
		events:    map[string][]model.ShipmentEvent{},
		chats:     map[string][]model.ChatMessage{},
		roles:     map[string]map[string]bool{},
		tokens:    map[string]trackingToken{},
		clock:     time.Now,
		intn:      rand.Intn,
		tokenTTL:  defaultTokenTTL,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) GrantRole(userID, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.roles[userID] == nil {
		b.roles[userID] = map[string]bool{}
	}
	b.roles[userID][role] = true
}

// テーブルごとの窓口
func (b *Backend) Orders() repo.ShippingOrderRepository         { return orderStore{b: b} }
func (b *Backend) Shipments() repo.ShipmentRepository           { return shipmentStore{b: b} }
func (b *Backend) ShipmentEvents() repo.ShipmentEventRepository { return eventStore{b: b} }
func (b *Backend) AuditLogs() repo.AuditLogRepository           { return auditStore{b: b} }
func (b *Backend) ChatMessages() repo.ChatMessageRepository     { return chatStore{b: b} }
func (b *Backend) Contacts() repo.ContactRepository             { return contactStore{b: b} }

// =====================
// transaction
// =====================

type txState struct {
	changes []model.ShipmentChange
}

type txRepos struct {
	b  *Backend
	tx *txState
}

func (r txRepos) Shipments() repo.ShipmentRepository           { return shipmentStore{b: r.b, tx: r.tx} }
func (r txRepos) ShipmentEvents() repo.ShipmentEventRepository { return eventStore{b: r.b, tx: r.tx} }
func (r txRepos) AuditLogs() repo.AuditLogRepository           { return auditStore{b: r.b, tx: r.tx} }

type snapshot struct {
	shipments   map[string]model.Shipment
	events      map[string][]model.ShipmentEvent
	audit       []model.AuditLog
	nextAuditID int64
}

// fnがエラーなら巻き戻す。通知はcommit後にまとめて流す
func (b *Backend) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	b.txMu.Lock()
	defer b.txMu.Unlock()

	snap := b.snapshot()
	tx := &txState{}
	if err := fn(txRepos{b: b, tx: tx}); err != nil {
		b.restore(snap)
		return err
	}
	b.publish(ctx, tx.changes)
	return nil
}

func (b *Backend) snapshot() snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := snapshot{
		shipments:   make(map[string]model.Shipment, len(b.shipments)),
		events:      make(map[string][]model.ShipmentEvent, len(b.events)),
		audit:       append([]model.AuditLog(nil), b.audit...),
		nextAuditID: b.nextAuditID,
	}
	for k, v := range b.shipments {
		s.shipments[k] = v
	}
	for k, v := range b.events {
		s.events[k] = append([]model.ShipmentEvent(nil), v...)
	}
	return s
}

func (b *Backend) restore(s snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shipments = s.shipments
	b.events = s.events
	b.audit = s.audit
	b.nextAuditID = s.nextAuditID
}

// tx==nilなら即commit
func (b *Backend) write(ctx context.Context, tx *txState, fn func(emit func(model.ShipmentChange)) error) error {
	if tx != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		return fn(func(c model.ShipmentChange) { tx.changes = append(tx.changes, c) })
	}

	b.txMu.Lock()
	defer b.txMu.Unlock()

	var changes []model.ShipmentChange
	b.mu.Lock()
	err := fn(func(c model.ShipmentChange) { changes = append(changes, c) })
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.publish(ctx, changes)
	return nil
}

func (b *Backend) publish(ctx context.Context, changes []model.ShipmentChange) {
	if b.publisher == nil {
		return
	}
	for _, c := range changes {
		if err := b.publisher.Publish(ctx, c); err != nil {
			b.logger.Warn("publish change failed", zap.String("shipment_id", c.ShipmentID()), zap.Error(err))
		}
	}
}
